package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"techno-mart-ai/internal/aicontent"
	"techno-mart-ai/internal/prompt"
)

const (
	maxBodyBytes = 64 << 10
	maxBatchSize = 20

	msgNameRequired  = "Please enter a product name first to generate a description."
	msgQueryRequired = "Please enter a search query."
	msgIdeaRequired  = "Please describe your dream gadget first."
	msgInvention     = "Behold! Your amazing invention, brought to life!"
)

// keywordList accepts either a JSON array of strings or a comma separated
// string.
type keywordList []string

func (k *keywordList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*k = keywordList{}
		return nil
	}

	if data[0] == '"' {
		var csv string
		if err := json.Unmarshal(data, &csv); err != nil {
			return err
		}
		*k = prompt.ParseKeywords(csv)
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	*k = prompt.NormalizeKeywords(list)
	return nil
}

type descriptionRequest struct {
	Name     string      `json:"name"`
	Keywords keywordList `json:"keywords"`
}

type descriptionResponse struct {
	Text string `json:"text"`
}

type batchRequest struct {
	Items []descriptionRequest `json:"items"`
}

type batchResponse struct {
	Results []descriptionResponse `json:"results"`
}

type sourceResponse struct {
	URI   string `json:"uri"`
	Title string `json:"title"`
}

type newsResponse struct {
	Text    string           `json:"text"`
	Sources []sourceResponse `json:"sources"`
}

type dreamRequest struct {
	Idea string `json:"idea"`
}

type dreamResponse struct {
	DataURI string `json:"dataUri"`
	Message string `json:"message"`
}

func (s *Server) handleDescription(w http.ResponseWriter, r *http.Request) {
	var req descriptionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		writeError(w, http.StatusBadRequest, msgNameRequired)
		return
	}

	ctx, cancel := s.withTimeout(r)
	defer cancel()

	res := s.ai.GenerateDescription(ctx, name, req.Keywords)
	writeJSON(w, http.StatusOK, descriptionResponse{Text: res.Text})
}

func (s *Server) handleDescriptionBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if len(req.Items) == 0 {
		writeError(w, http.StatusBadRequest, "items must not be empty")
		return
	}
	if len(req.Items) > maxBatchSize {
		writeError(w, http.StatusBadRequest, "too many items")
		return
	}

	reqs := make([]aicontent.DescriptionRequest, 0, len(req.Items))
	for _, item := range req.Items {
		name := strings.TrimSpace(item.Name)
		if name == "" {
			writeError(w, http.StatusBadRequest, msgNameRequired)
			return
		}
		reqs = append(reqs, aicontent.DescriptionRequest{ProductName: name, Keywords: item.Keywords})
	}

	ctx, cancel := s.withTimeout(r)
	defer cancel()

	results := s.ai.GenerateDescriptions(ctx, reqs)

	out := batchResponse{Results: make([]descriptionResponse, 0, len(results))}
	for _, res := range results {
		out.Results = append(out.Results, descriptionResponse{Text: res.Text})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleNews(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeError(w, http.StatusBadRequest, msgQueryRequired)
		return
	}

	ctx, cancel := s.withTimeout(r)
	defer cancel()

	res := s.ai.SearchRecentEvents(ctx, query)

	out := newsResponse{Text: res.Text, Sources: make([]sourceResponse, 0, len(res.Sources))}
	for _, src := range res.Sources {
		out.Sources = append(out.Sources, sourceResponse{URI: src.URI, Title: src.Title})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDreamGadget(w http.ResponseWriter, r *http.Request) {
	var req dreamRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	idea := strings.TrimSpace(req.Idea)
	if idea == "" {
		writeError(w, http.StatusBadRequest, msgIdeaRequired)
		return
	}

	ctx, cancel := s.withTimeout(r)
	defer cancel()

	img, err := s.ai.GenerateDreamGadgetImage(ctx, prompt.DreamGadget(idea))
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, aicontent.ErrServiceUnavailable) {
			status = http.StatusServiceUnavailable
		}
		s.logger.Error("dream gadget failed", "request_id", RequestID(r.Context()), "err", err)
		writeError(w, status, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dreamResponse{DataURI: img.DataURI, Message: msgInvention})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is empty")
		}
		return errors.New("invalid JSON body")
	}
	return nil
}
