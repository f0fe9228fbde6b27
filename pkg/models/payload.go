package models

// NodePayload is implemented by every kind-specific payload struct. The kind
// tag, not a shared base type, decides which struct a node's payload decodes
// into.
type NodePayload interface {
	PayloadKind() NodeKind
}

// TextPayload is the payload of a plain text node.
type TextPayload struct {
	Text      string `json:"text"`
	FontSize  int    `json:"font_size,omitempty"`
	Alignment string `json:"alignment,omitempty"`
}

func (TextPayload) PayloadKind() NodeKind { return NodeKindText }

// PDFPayload is the payload of an uploaded PDF node.
type PDFPayload struct {
	URL        string `json:"url"`
	FileName   string `json:"file_name,omitempty"`
	PageCount  int    `json:"page_count,omitempty"`
	ParsedText string `json:"parsed_text,omitempty"`
}

func (PDFPayload) PayloadKind() NodeKind { return NodeKindPDF }

// VoicePayload is the payload of a voice recording node. The transcript is
// filled in by the transcription collaborator, not by this core.
type VoicePayload struct {
	AudioURL        string  `json:"audio_url"`
	DurationSeconds float64 `json:"duration_seconds,omitempty"`
	Transcript      string  `json:"transcript,omitempty"`
}

func (VoicePayload) PayloadKind() NodeKind { return NodeKindVoice }

// ImagePayload is the payload of an image node.
type ImagePayload struct {
	URL      string `json:"url"`
	Alt      string `json:"alt,omitempty"`
	Caption  string `json:"caption,omitempty"`
	Analysis string `json:"analysis,omitempty"`
}

func (ImagePayload) PayloadKind() NodeKind { return NodeKindImage }

// YouTubePayload references a video-platform source.
type YouTubePayload struct {
	URL        string `json:"url"`
	VideoID    string `json:"video_id"`
	Title      string `json:"title,omitempty"`
	Thumbnail  string `json:"thumbnail,omitempty"`
	Transcript string `json:"transcript,omitempty"`
}

func (YouTubePayload) PayloadKind() NodeKind { return NodeKindYouTube }

// InstagramPayload references a social post.
type InstagramPayload struct {
	URL        string `json:"url"`
	Shortcode  string `json:"shortcode"`
	Caption    string `json:"caption,omitempty"`
	Transcript string `json:"transcript,omitempty"`
}

func (InstagramPayload) PayloadKind() NodeKind { return NodeKindInstagram }

// TemplateSection is one block of a generated template.
type TemplateSection struct {
	Heading string `json:"heading"`
	Content string `json:"content"`
}

// TemplatePayload is the payload of a generated-template node.
type TemplatePayload struct {
	TemplateID string            `json:"template_id"`
	Title      string            `json:"title"`
	Sections   []TemplateSection `json:"sections"`
}

func (TemplatePayload) PayloadKind() NodeKind { return NodeKindTemplate }

// IdeaPayload is the payload of a free-form idea node.
type IdeaPayload struct {
	Title string `json:"title"`
	Notes string `json:"notes,omitempty"`
}

func (IdeaPayload) PayloadKind() NodeKind { return NodeKindIdea }

// GroupPayload is the payload of a grouping container node.
type GroupPayload struct {
	Label   string   `json:"label"`
	NodeIDs []string `json:"node_ids"`
}

func (GroupPayload) PayloadKind() NodeKind { return NodeKindGroup }

// ConnectorPayload is the payload of a relationship connector node.
type ConnectorPayload struct {
	Label string `json:"label,omitempty"`
}

func (ConnectorPayload) PayloadKind() NodeKind { return NodeKindConnector }

// ChatMessage is one turn in a chat transcript.
type ChatMessage struct {
	ID      string `json:"id"`
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatPayload is the payload of a chat transcript node.
type ChatPayload struct {
	Messages []ChatMessage `json:"messages"`
	Model    string        `json:"model,omitempty"`
}

func (ChatPayload) PayloadKind() NodeKind { return NodeKindChat }

// WebpagePayload is the payload of a web-page excerpt node.
type WebpagePayload struct {
	URL     string `json:"url"`
	Title   string `json:"title,omitempty"`
	Excerpt string `json:"excerpt,omitempty"`
}

func (WebpagePayload) PayloadKind() NodeKind { return NodeKindWebpage }

func newPayload(kind NodeKind) NodePayload {
	switch kind {
	case NodeKindText:
		return &TextPayload{}
	case NodeKindPDF:
		return &PDFPayload{}
	case NodeKindVoice:
		return &VoicePayload{}
	case NodeKindImage:
		return &ImagePayload{}
	case NodeKindYouTube:
		return &YouTubePayload{}
	case NodeKindInstagram:
		return &InstagramPayload{}
	case NodeKindTemplate:
		return &TemplatePayload{}
	case NodeKindIdea:
		return &IdeaPayload{}
	case NodeKindGroup:
		return &GroupPayload{}
	case NodeKindConnector:
		return &ConnectorPayload{}
	case NodeKindChat:
		return &ChatPayload{}
	case NodeKindWebpage:
		return &WebpagePayload{}
	default:
		return nil
	}
}
