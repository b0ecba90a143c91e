package pipeline

// CalloutType is one of the eight canonical callout kinds.
type CalloutType string

// Canonical callout types.
const (
	CalloutNote     CalloutType = "note"
	CalloutInfo     CalloutType = "info"
	CalloutTip      CalloutType = "tip"
	CalloutQuestion CalloutType = "question"
	CalloutWarning  CalloutType = "warning"
	CalloutDanger   CalloutType = "danger"
	CalloutExample  CalloutType = "example"
	CalloutQuote    CalloutType = "quote"
)

// CalloutTypes lists the canonical types in display order.
var CalloutTypes = []CalloutType{
	CalloutNote, CalloutInfo, CalloutTip, CalloutQuestion,
	CalloutWarning, CalloutDanger, CalloutExample, CalloutQuote,
}

// CanonicalCalloutType maps a lowercase type marker to its canonical type.
// Unknown markers map to CalloutNote.
func CanonicalCalloutType(raw string) CalloutType {
	switch raw {
	case "info", "todo":
		return CalloutInfo
	case "tip", "hint", "important", "success", "check", "done":
		return CalloutTip
	case "question", "help", "faq":
		return CalloutQuestion
	case "warning", "caution", "attention":
		return CalloutWarning
	case "failure", "fail", "missing", "danger", "error", "bug":
		return CalloutDanger
	case "example":
		return CalloutExample
	case "quote":
		return CalloutQuote
	default: // note, abstract, summary, tldr, anything else
		return CalloutNote
	}
}

// DefaultTitle is the title shown when the header line has none.
func (t CalloutType) DefaultTitle() string {
	switch t {
	case CalloutInfo:
		return "Info"
	case CalloutTip:
		return "Tip"
	case CalloutQuestion:
		return "Question"
	case CalloutWarning:
		return "Warning"
	case CalloutDanger:
		return "Danger"
	case CalloutExample:
		return "Example"
	case CalloutQuote:
		return "Quote"
	default:
		return "Note"
	}
}

// CalloutTheme holds the colors of a callout container.
type CalloutTheme struct {
	BorderColor string
	Background  string
	TitleColor  string
}

// Theme returns the colors for t.
func (t CalloutType) Theme() CalloutTheme {
	switch t {
	case CalloutInfo:
		return CalloutTheme{"#2eaadc", "#f3fbff", "#1f7599"}
	case CalloutTip:
		return CalloutTheme{"#2f9e44", "#f3fcf5", "#1f6d2f"}
	case CalloutQuestion:
		return CalloutTheme{"#b7791f", "#fffaf2", "#8a5b17"}
	case CalloutWarning:
		return CalloutTheme{"#e8913c", "#fff8f0", "#b96f22"}
	case CalloutDanger:
		return CalloutTheme{"#e03131", "#fff5f5", "#b42323"}
	case CalloutExample:
		return CalloutTheme{"#0ca678", "#f2fffb", "#087f5b"}
	case CalloutQuote:
		return CalloutTheme{"#868e96", "#f8f9fa", "#495057"}
	default:
		return CalloutTheme{"#773098", "#faf7fd", "#5a3382"}
	}
}
