package pipeline

import (
	"regexp"
	"strings"
)

// embedPattern matches ![[target]] and ![[target|alias]].
var embedPattern = regexp.MustCompile(`!\[\[([^\]]*?)\]\]`)

// NormalizeEmbeds rewrites wiki-style embeds into standard image syntax:
// ![[dir/My Pic.png|caption]] becomes ![caption](dir/My%20Pic.png).
// The target is split on the first "|", trimmed and percent-encoded; the
// alias keeps any further "|". Text without embeds is returned unchanged.
func NormalizeEmbeds(markdown string) string {
	if !strings.Contains(markdown, "![[") {
		return markdown
	}
	return embedPattern.ReplaceAllStringFunc(markdown, func(m string) string {
		content := embedPattern.FindStringSubmatch(m)[1]
		target, alias, _ := strings.Cut(content, "|")
		return "![" + alias + "](" + encodeURI(strings.TrimSpace(target)) + ")"
	})
}

// uriKeep is the set of bytes encodeURI leaves alone: unreserved and
// reserved URI characters plus '#'.
var uriKeep = func() (keep [256]bool) {
	const chars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789" +
		"-_.!~*'()" + ";,/?:@&=+$" + "#"
	for i := 0; i < len(chars); i++ {
		keep[chars[i]] = true
	}
	return keep
}()

// encodeURI percent-encodes s the way ECMAScript encodeURI does: path
// separators and reserved characters survive, spaces, '%' and non-ASCII
// bytes are escaped as UTF-8 octets.
func encodeURI(s string) string {
	const hex = "0123456789ABCDEF"
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if uriKeep[c] {
			sb.WriteByte(c)
			continue
		}
		sb.WriteByte('%')
		sb.WriteByte(hex[c>>4])
		sb.WriteByte(hex[c&0x0f])
	}
	return sb.String()
}
