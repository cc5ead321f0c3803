package folio

import "github.com/goliatone/go-folio/internal/runtimeconfig"

var (
	ErrContentRootRequired      = runtimeconfig.ErrContentRootRequired
	ErrPostsDirRequired         = runtimeconfig.ErrPostsDirRequired
	ErrWordsPerMinuteInvalid    = runtimeconfig.ErrWordsPerMinuteInvalid
	ErrDuplicatePolicyInvalid   = runtimeconfig.ErrDuplicatePolicyInvalid
	ErrSiteURLInvalid           = runtimeconfig.ErrSiteURLInvalid
	ErrCanonicalHostRequired    = runtimeconfig.ErrCanonicalHostRequired
	ErrServerAddrRequired       = runtimeconfig.ErrServerAddrRequired
	ErrCacheTTLInvalid          = runtimeconfig.ErrCacheTTLInvalid
	ErrWatchRequiresCache       = runtimeconfig.ErrWatchRequiresCache
	ErrContactRecipientRequired = runtimeconfig.ErrContactRecipientRequired
	ErrContactAddressInvalid    = runtimeconfig.ErrContactAddressInvalid
	ErrContactSMTPHostRequired  = runtimeconfig.ErrContactSMTPHostRequired
	ErrLoggingProviderRequired  = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown   = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid      = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid     = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config         = runtimeconfig.Config
	ContentConfig  = runtimeconfig.ContentConfig
	SiteConfig     = runtimeconfig.SiteConfig
	MarkdownConfig = runtimeconfig.MarkdownConfig
	ServerConfig   = runtimeconfig.ServerConfig
	CacheConfig    = runtimeconfig.CacheConfig
	ContactConfig  = runtimeconfig.ContactConfig
	LoggingConfig  = runtimeconfig.LoggingConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
