package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-folio/internal/content"
)

type printStyles struct {
	header lipgloss.Style
	slug   lipgloss.Style
	date   lipgloss.Style
	muted  lipgloss.Style
	draft  lipgloss.Style
}

func newPrintStyles() printStyles {
	return printStyles{
		header: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		slug:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		date:   lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
		muted:  lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		draft:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11")),
	}
}

func newPostsCmd(app *cli) *cobra.Command {
	var (
		drafts bool
		tag    string
	)

	cmd := &cobra.Command{
		Use:   "posts",
		Short: "List posts newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			module, err := app.module()
			if err != nil {
				return err
			}
			svc := module.Content()

			var posts []*content.PostContent
			if drafts {
				posts, err = svc.AllPosts(cmd.Context())
			} else {
				posts, err = svc.Posts(cmd.Context())
			}
			if err != nil {
				return err
			}
			if tag != "" {
				posts = content.FilterByTag(posts, tag)
			}
			printPosts(app.out, posts, newPrintStyles())
			return nil
		},
	}

	cmd.Flags().BoolVar(&drafts, "drafts", false, "include draft posts")
	cmd.Flags().StringVar(&tag, "tag", "", "only list posts carrying this tag")
	return cmd
}

func printPosts(out io.Writer, posts []*content.PostContent, styles printStyles) {
	if len(posts) == 0 {
		fmt.Fprintln(out, styles.muted.Render("no posts found"))
		return
	}

	slugWidth := len("SLUG")
	for _, post := range posts {
		if n := lipgloss.Width(post.Slug); n > slugWidth {
			slugWidth = n
		}
	}
	slugCol := lipgloss.NewStyle().Width(slugWidth + 2)
	dateCol := lipgloss.NewStyle().Width(12)
	readCol := lipgloss.NewStyle().Width(8)

	fmt.Fprintln(out, styles.header.Render(
		slugCol.Render("SLUG")+dateCol.Render("DATE")+readCol.Render("READ")+"TITLE",
	))
	for _, post := range posts {
		date := post.DateString()
		if date == "" {
			date = "-"
		}
		title := post.Title
		if post.Draft {
			title += " " + styles.draft.Render("[draft]")
		}
		fmt.Fprintln(out,
			styles.slug.Render(slugCol.Render(post.Slug))+
				styles.date.Render(dateCol.Render(date))+
				styles.muted.Render(readCol.Render(strconv.Itoa(post.ReadingTimeMinutes)+"m"))+
				title,
		)
	}
	fmt.Fprintln(out, styles.muted.Render(fmt.Sprintf("%d post(s)", len(posts))))
}
