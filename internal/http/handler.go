package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/davidbz/emberpost/internal/budget"
	"github.com/davidbz/emberpost/internal/domain"
	"github.com/davidbz/emberpost/internal/observability"
	"github.com/davidbz/emberpost/internal/pipeline"
	"go.uber.org/zap"
)

// Handler handles HTTP requests.
type Handler struct {
	scout  *pipeline.Scout
	writer *pipeline.Writer
	meter  *budget.Meter
	events domain.EventPublisher
}

// NewHandler creates a new HTTP handler (DI constructor).
func NewHandler(scout *pipeline.Scout, writer *pipeline.Writer, meter *budget.Meter, events domain.EventPublisher) *Handler {
	return &Handler{
		scout:  scout,
		writer: writer,
		meter:  meter,
		events: events,
	}
}

// RecommendRequest is the body of POST /v1/products/recommend.
type RecommendRequest struct {
	Keyword    string   `json:"keyword"`
	DedupeKeys []string `json:"dedupe_keys"`
}

// GenerateRequest is the body of POST /v1/posts/generate.
type GenerateRequest struct {
	Keyword            string                  `json:"keyword"`
	AffiliateURL       string                  `json:"affiliate_url"`
	Product            domain.ProductCandidate `json:"product"`
	TemplateType       string                  `json:"template_type,omitempty"`
	EnforceProductName string                  `json:"enforce_product_name,omitempty"`
	AllowedNames       []string                `json:"allowed_names,omitempty"`
	DisallowedBrands   []string                `json:"disallowed_brands,omitempty"`
	AffiliateHTML      string                  `json:"affiliate_html,omitempty"`
	SpecTableMD        string                  `json:"spec_table_md,omitempty"`
	Sources            []string                `json:"sources,omitempty"`
}

// HandleRecommend processes item-scouting requests.
func (h *Handler) HandleRecommend(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req RecommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if req.Keyword == "" {
		http.Error(w, "keyword is required", http.StatusBadRequest)
		return
	}

	logger := observability.FromContext(ctx)
	logger.Info("recommend request received", zap.String("keyword", req.Keyword))

	candidates, err := h.scout.Recommend(ctx, req.Keyword, req.DedupeKeys)
	if err != nil {
		logger.Error("recommend failed", zap.Error(err))
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	if h.events != nil {
		h.events.Publish(ctx, observability.EventProductsScouted, map[string]any{
			"keyword": req.Keyword,
			"count":   len(candidates),
		})
	}

	writeJSON(w, map[string]any{"items": candidates})
}

// HandleGenerate processes document-generation requests.
func (h *Handler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if req.Keyword == "" {
		http.Error(w, "keyword is required", http.StatusBadRequest)
		return
	}
	if req.AffiliateURL == "" {
		http.Error(w, "affiliate_url is required", http.StatusBadRequest)
		return
	}

	logger := observability.FromContext(ctx)
	logger.Info("generate request received",
		zap.String("keyword", req.Keyword),
		zap.String("template_type", req.TemplateType),
	)

	draft, err := h.writer.Generate(ctx, req.Keyword, req.Product, req.AffiliateURL, pipeline.GenerateOptions{
		TemplateType:       req.TemplateType,
		EnforceProductName: req.EnforceProductName,
		AllowedNames:       req.AllowedNames,
		DisallowedBrands:   req.DisallowedBrands,
		AffiliateHTML:      req.AffiliateHTML,
		SpecTableMD:        req.SpecTableMD,
		Sources:            req.Sources,
	})
	if err != nil {
		logger.Error("generate failed", zap.Error(err))
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	if h.events != nil {
		h.events.Publish(ctx, observability.EventPostGenerated, map[string]any{
			"keyword": req.Keyword,
			"title":   draft.Title,
		})
	}

	writeJSON(w, draft)
}

// HandleUsage reports today's cumulative usage and the advisory cap.
func (h *Handler) HandleUsage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	usage, capUSD, err := h.meter.Today(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, map[string]any{
		"tokens":        usage.Tokens,
		"usd_spent":     usage.USD,
		"daily_cap_usd": capUSD,
	})
}

// HandleHealth handles health check requests.
func (h *Handler) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string]string{"status": "healthy"})
}

// statusFor maps the error taxonomy to HTTP status codes.
func statusFor(err error) int {
	switch domain.KindOf(err) {
	case domain.KindNotConfigured:
		return http.StatusServiceUnavailable
	case domain.KindPolicyBlocked:
		return http.StatusUnprocessableEntity
	case domain.KindEmptyResponse, domain.KindParse, domain.KindNetwork:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Status already written, nothing left to do.
		return
	}
}
