package gemini

// TextRequest is a single text-generation exchange.
type TextRequest struct {
	SystemInstruction string
	Prompt            string
	GoogleSearch      bool
}

type TextResponse struct {
	Text       string
	Candidates []Candidate
}

type Candidate struct {
	Grounding *GroundingMetadata
}

type GroundingMetadata struct {
	Chunks []GroundingChunk
}

// GroundingChunk is one citation attached to a grounded answer. Web is nil
// for chunks that do not come from the web search tool.
type GroundingChunk struct {
	Web *WebSource
}

type WebSource struct {
	URI   string
	Title string
}

type ImagesRequest struct {
	Prompt         string
	NumberOfImages int
	MIMEType       string
}

type ImagesResponse struct {
	Images []Image
}

// Image holds raw (not base64) image bytes. Bytes is empty when the provider
// listed an image without a payload.
type Image struct {
	Bytes    []byte
	MIMEType string
}
