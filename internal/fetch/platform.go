// Package fetch - platform.go provides source platform detection and platform-specific selectors.
package fetch

import (
	"net/url"
	"strings"
)

// Platform represents a known publishing platform.
type Platform string

const (
	// PlatformWeChat is a WeChat official-account article
	PlatformWeChat Platform = "wechat"
	// PlatformZhihu is a Zhihu column or answer
	PlatformZhihu Platform = "zhihu"
	// PlatformWikipedia is any Wikipedia language edition
	PlatformWikipedia Platform = "wikipedia"
	// PlatformMedium is Medium or a Medium-hosted publication
	PlatformMedium Platform = "medium"
	// PlatformUnknown is an unrecognized site
	PlatformUnknown Platform = "unknown"
)

// DetectPlatform identifies the publishing platform from a URL.
func DetectPlatform(urlStr string) Platform {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return PlatformUnknown
	}

	host := strings.ToLower(parsed.Host)

	switch {
	case strings.HasSuffix(host, "mp.weixin.qq.com"):
		return PlatformWeChat
	case strings.HasSuffix(host, "zhihu.com"):
		return PlatformZhihu
	case strings.HasSuffix(host, "wikipedia.org"):
		return PlatformWikipedia
	case strings.HasSuffix(host, "medium.com"):
		return PlatformMedium
	}
	return PlatformUnknown
}

// PlatformContentSelectors returns content selectors optimized for a specific platform.
func PlatformContentSelectors(platform Platform) []string {
	switch platform {
	case PlatformWeChat:
		return []string{
			"#js_content",
			".rich_media_content",
		}
	case PlatformZhihu:
		return []string{
			".Post-RichText",
			".RichContent-inner",
			".RichText",
		}
	case PlatformWikipedia:
		return []string{
			"#mw-content-text .mw-parser-output",
			"#mw-content-text",
		}
	case PlatformMedium:
		return []string{
			"article section",
			"article",
		}
	default:
		return DefaultTextSelectors()
	}
}

// PlatformNoiseSelectors returns noise exclusion selectors for a specific platform.
func PlatformNoiseSelectors(platform Platform) []string {
	// Common noise selectors for all platforms
	common := []string{
		"form",
		"aside",
		".comments",
		"#comments",
		".social-share",
		".share-buttons",
		".related-posts",
		".cookie-consent",
		".gdpr-notice",
	}

	switch platform {
	case PlatformWeChat:
		return append(common,
			"#js_pc_qr_code",
			".qr_code_pc",
			"#js_tags",
			".reward_area",
		)
	case PlatformZhihu:
		return append(common,
			".ContentItem-actions",
			".Reward",
			".Post-topicsAndReviewer",
		)
	case PlatformWikipedia:
		return append(common,
			".reference",
			".reflist",
			".navbox",
			".mw-editsection",
			"#toc",
			".infobox",
		)
	case PlatformMedium:
		return append(common,
			".pw-multi-vote-icon",
			"[data-testid='headerSocialShareButton']",
		)
	default:
		return common
	}
}
