package assets

// Names of the embedded styles.
const (
	DefaultStyle = "wechat"
	CalloutStyle = "callout"
)

var defaultLoader = NewEmbeddedLoader()

// LoadStyle loads an embedded style by name.
func LoadStyle(name string) (string, error) {
	return defaultLoader.LoadStyle(name)
}

// ListStyles returns the names of the embedded styles.
func ListStyles() []string {
	return defaultLoader.ListStyles()
}

// DefaultCSS returns the built-in article stylesheet. It is what a fresh or
// reset settings file holds.
func DefaultCSS() string {
	return mustLoad(DefaultStyle)
}

// CalloutCSS returns the built-in callout stylesheet.
func CalloutCSS() string {
	return mustLoad(CalloutStyle)
}

func mustLoad(name string) string {
	css, err := defaultLoader.LoadStyle(name)
	if err != nil {
		panic("assets: embedded style missing: " + name)
	}
	return css
}
