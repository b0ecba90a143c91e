package clipboard

import (
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"
)

// macCommand sets both flavours in one AppleScript record.
func macCommand(c Content) command {
	script := fmt.Sprintf(
		"set the clipboard to {«class HTML»:«data HTML%s», «class utf8»:«data utf8%s»}\n",
		strings.ToUpper(hex.EncodeToString([]byte(c.HTML))),
		strings.ToUpper(hex.EncodeToString([]byte(c.Text))),
	)
	return command{name: "osascript", args: []string{"-"}, stdin: []byte(script)}
}

// windowsCommand builds a DataObject holding CF_HTML and Unicode text and
// sets it once. Payloads travel base64-encoded to avoid quoting issues.
func windowsCommand(shell string) func(Content) command {
	return func(c Content) command {
		script := strings.Join([]string{
			"Add-Type -AssemblyName System.Windows.Forms",
			"$html = [System.Convert]::FromBase64String('" + base64.StdEncoding.EncodeToString([]byte(CFHTML(c.HTML))) + "')",
			"$text = [System.Text.Encoding]::UTF8.GetString([System.Convert]::FromBase64String('" + base64.StdEncoding.EncodeToString([]byte(c.Text)) + "'))",
			"$data = New-Object System.Windows.Forms.DataObject",
			"$data.SetData('HTML Format', (New-Object System.IO.MemoryStream(,$html)))",
			"$data.SetData([System.Windows.Forms.DataFormats]::UnicodeText, $text)",
			"[System.Windows.Forms.Clipboard]::SetDataObject($data, $true)",
		}, "\n") + "\n"
		return command{
			name:  shell,
			args:  []string{"-NoProfile", "-NonInteractive", "-STA", "-Command", "-"},
			stdin: []byte(script),
		}
	}
}

// wlCopyCommand offers the HTML flavour only: wl-copy takes one type per write.
func wlCopyCommand(c Content) command {
	return command{name: "wl-copy", args: []string{"--type", "text/html"}, stdin: []byte(c.HTML), forks: true}
}

// xclipCommand offers the HTML flavour only: xclip takes one target per write.
func xclipCommand(c Content) command {
	return command{
		name:  "xclip",
		args:  []string{"-selection", "clipboard", "-t", "text/html"},
		stdin: []byte(c.HTML),
		forks: true,
	}
}

const (
	cfHTMLHeader = "Version:0.9\r\nStartHTML:%010d\r\nEndHTML:%010d\r\nStartFragment:%010d\r\nEndFragment:%010d\r\n"
	cfHTMLPrefix = "<html><body>\r\n<!--StartFragment-->"
	cfHTMLSuffix = "<!--EndFragment-->\r\n</body></html>"
)

// CFHTML wraps an HTML fragment in the Windows "HTML Format" envelope. Offsets
// are byte offsets into the UTF-8 payload.
func CFHTML(fragment string) string {
	headerLen := len(fmt.Sprintf(cfHTMLHeader, 0, 0, 0, 0))
	startHTML := headerLen
	startFragment := startHTML + len(cfHTMLPrefix)
	endFragment := startFragment + len(fragment)
	endHTML := endFragment + len(cfHTMLSuffix)

	return fmt.Sprintf(cfHTMLHeader, startHTML, endHTML, startFragment, endFragment) +
		cfHTMLPrefix + fragment + cfHTMLSuffix
}
