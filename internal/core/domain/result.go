package domain

// GenerateOutcome tags the three expected endings of a generate request.
// Expected conditions (chit-chat input, missing currency) are outcomes, not
// errors; only genuinely unexpected failures travel as Go errors.
type GenerateOutcome string

const (
	OutcomeDocument      GenerateOutcome = "document"
	OutcomeConversation  GenerateOutcome = "conversation"
	OutcomeNeedsCurrency GenerateOutcome = "needs_currency"
)

type GenerateRequest struct {
	Prompt       string
	History      []ConversationTurn
	DocumentType string // optional caller-forced type
	File         *FileUpload
}

type FileUpload struct {
	Name string
	Data []byte
}

type GenerateResult struct {
	Outcome      GenerateOutcome
	DocumentType DocumentType

	// Document outcome.
	Record     *DocumentRecord
	TextOutput string

	// Conversation and needs-currency outcomes.
	Message     string
	PartialData RawExtraction
}

type ExportFormat string

const (
	FormatPDF  ExportFormat = "pdf"
	FormatDOCX ExportFormat = "docx"
	FormatPNG  ExportFormat = "png"
	FormatXLSX ExportFormat = "xlsx"
)

func ParseExportFormat(s string) (ExportFormat, bool) {
	switch ExportFormat(s) {
	case FormatPDF, FormatDOCX, FormatPNG, FormatXLSX:
		return ExportFormat(s), true
	default:
		return "", false
	}
}

func (f ExportFormat) ContentType() string {
	switch f {
	case FormatPDF:
		return "application/pdf"
	case FormatDOCX:
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	case FormatPNG:
		return "image/png"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/octet-stream"
	}
}

// ExportFile is a fully rendered download: bytes plus transport metadata.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}
