package gemini

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

const (
	DefaultTextModel  = "gemini-2.5-flash"
	DefaultImageModel = "imagen-3.0-generate-002"
)

type Options struct {
	APIKey     string
	BaseURL    string
	APIVersion string
	HTTPClient *http.Client
	Logger     *slog.Logger

	TextModel  string
	ImageModel string
}

// Client talks to the Gemini API through the Gen AI SDK and converts its
// responses into the package's plain value types.
type Client struct {
	genai      *genai.Client
	textModel  string
	imageModel string
	logger     *slog.Logger
}

func New(ctx context.Context, opts Options) (*Client, error) {
	apiKey := strings.TrimSpace(opts.APIKey)
	if apiKey == "" {
		return nil, errors.New("gemini api key is empty")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	textModel := strings.TrimSpace(opts.TextModel)
	if textModel == "" {
		textModel = DefaultTextModel
	}

	imageModel := strings.TrimSpace(opts.ImageModel)
	if imageModel == "" {
		imageModel = DefaultImageModel
	}

	config := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,

		HTTPClient: opts.HTTPClient,
		HTTPOptions: genai.HTTPOptions{
			BaseURL:    strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/"),
			APIVersion: strings.TrimSpace(opts.APIVersion),
		},
	}

	client, err := genai.NewClient(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &Client{
		genai:      client,
		textModel:  textModel,
		imageModel: imageModel,
		logger:     logger,
	}, nil
}

func (c *Client) TextModel() string {
	return c.textModel
}

func (c *Client) ImageModel() string {
	return c.imageModel
}

func (c *Client) GenerateText(ctx context.Context, req TextRequest) (*TextResponse, error) {
	config := &genai.GenerateContentConfig{}

	if system := strings.TrimSpace(req.SystemInstruction); system != "" {
		config.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}

	if req.GoogleSearch {
		config.Tools = []*genai.Tool{
			{GoogleSearch: &genai.GoogleSearch{}},
		}
	}

	c.logger.Debug("gemini generate content", "model", c.textModel, "search", req.GoogleSearch)

	resp, err := c.genai.Models.GenerateContent(ctx, c.textModel, genai.Text(req.Prompt), config)
	if err != nil {
		return nil, err
	}

	return toTextResponse(resp), nil
}

func (c *Client) GenerateImages(ctx context.Context, req ImagesRequest) (*ImagesResponse, error) {
	count := req.NumberOfImages
	if count <= 0 {
		count = 1
	}

	config := &genai.GenerateImagesConfig{
		NumberOfImages: int32(count),
		OutputMIMEType: req.MIMEType,
	}

	c.logger.Debug("gemini generate images", "model", c.imageModel, "count", count, "mime", req.MIMEType)

	resp, err := c.genai.Models.GenerateImages(ctx, c.imageModel, req.Prompt, config)
	if err != nil {
		return nil, err
	}

	return toImagesResponse(resp), nil
}

func toTextResponse(resp *genai.GenerateContentResponse) *TextResponse {
	if resp == nil {
		return &TextResponse{}
	}

	out := &TextResponse{
		Text: resp.Text(),
	}

	for _, candidate := range resp.Candidates {
		if candidate == nil {
			out.Candidates = append(out.Candidates, Candidate{})
			continue
		}
		out.Candidates = append(out.Candidates, Candidate{
			Grounding: toGrounding(candidate.GroundingMetadata),
		})
	}

	return out
}

func toGrounding(metadata *genai.GroundingMetadata) *GroundingMetadata {
	if metadata == nil {
		return nil
	}

	out := &GroundingMetadata{}
	for _, chunk := range metadata.GroundingChunks {
		if chunk == nil {
			continue
		}

		var web *WebSource
		if chunk.Web != nil {
			web = &WebSource{URI: chunk.Web.URI, Title: chunk.Web.Title}
		}
		out.Chunks = append(out.Chunks, GroundingChunk{Web: web})
	}
	return out
}

func toImagesResponse(resp *genai.GenerateImagesResponse) *ImagesResponse {
	if resp == nil {
		return &ImagesResponse{}
	}

	out := &ImagesResponse{}
	for _, generated := range resp.GeneratedImages {
		if generated == nil || generated.Image == nil {
			out.Images = append(out.Images, Image{})
			continue
		}
		out.Images = append(out.Images, Image{
			Bytes:    generated.Image.ImageBytes,
			MIMEType: generated.Image.MIMEType,
		})
	}
	return out
}
