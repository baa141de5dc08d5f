package httptransport

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"pihooks/internal/guard"
	"pihooks/internal/hooks"
	"pihooks/internal/identity"
	"pihooks/internal/platform/middleware"
	"pihooks/internal/profile"
	"pihooks/internal/spoof"
	"pihooks/internal/switches"
	dErrors "pihooks/pkg/domain-errors"
	"pihooks/pkg/platform/httputil"
)

// Simulator dry-runs a process attach.
type Simulator interface {
	Simulate(ctx context.Context, packageName, processName string) (*hooks.Simulation, error)
}

// Handler is the thin HTTP layer. It delegates to the classifier, rules and
// guards without embedding business logic so transport concerns remain
// isolated.
type Handler struct {
	classifier identity.Classifier
	rules      spoof.Rules
	catalog    *profile.Catalog
	source     switches.Source
	simulator  Simulator
	marker     guard.MarkerPredicate
	logger     *slog.Logger
}

func NewHandler(
	classifier identity.Classifier,
	rules spoof.Rules,
	catalog *profile.Catalog,
	source switches.Source,
	simulator Simulator,
	logger *slog.Logger,
) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	if catalog == nil {
		catalog = profile.DefaultCatalog()
	}
	return &Handler{
		classifier: classifier,
		rules:      rules,
		catalog:    catalog,
		source:     source,
		simulator:  simulator,
		marker:     guard.ContainsMarker(guard.IntegrityMarker),
		logger:     logger,
	}
}

// Register mounts the inspection endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Post("/decisions", h.HandleDecision)
	r.Post("/attestation", h.HandleAttestation)
	r.Post("/features", h.HandleFeature)
	r.Post("/attach", h.HandleAttach)
	r.Get("/profiles", h.HandleListProfiles)
	r.Get("/profiles/{name}", h.HandleGetProfile)
}

// HandleDecision handles POST /v1/decisions: classify and decide, apply nothing.
func (h *Handler) HandleDecision(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, err := httputil.DecodeJSON[ProcessRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req.Normalize()

	pc, snap, err := h.resolve(ctx, *req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	decision := h.rules.Decide(pc, snap)
	h.logger.InfoContext(ctx, "decision evaluated",
		"request_id", middleware.GetRequestID(ctx),
		"operator", middleware.GetOperator(ctx),
		"package", pc.PackageName,
		"kind", decision.Kind.String(),
	)
	httputil.WriteJSON(w, http.StatusOK, DecisionResult{Context: pc, Decision: FromDecision(decision)})
}

// HandleAttestation handles POST /v1/attestation against a caller-supplied stack.
func (h *Handler) HandleAttestation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, err := httputil.DecodeJSON[AttestationRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req.Normalize()

	pc, snap, err := h.resolve(ctx, req.ProcessRequest)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	reason := guard.AttestationBlockReason(pc, snap, req.Frames, h.marker)
	httputil.WriteJSON(w, http.StatusOK, AttestationResponse{
		Blocked: reason != guard.ReasonNone,
		Reason:  string(reason),
	})
}

// HandleFeature handles POST /v1/features.
func (h *Handler) HandleFeature(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, err := httputil.DecodeJSON[FeatureRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}

	pc, snap, err := h.resolve(ctx, req.ProcessRequest)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, FeatureResponse{
		Has: guard.FilterFeature(pc, snap, req.Feature, req.Reported),
	})
}

// HandleAttach handles POST /v1/attach by simulating a process attach.
func (h *Handler) HandleAttach(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()
	req, err := httputil.DecodeJSON[ProcessRequest](r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		httputil.WriteError(w, err)
		return
	}
	if h.simulator == nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnsupported, "attach simulation is not configured"))
		return
	}

	sim, err := h.simulator.Simulate(ctx, req.PackageName, req.ProcessName)
	if err != nil {
		h.logger.ErrorContext(ctx, "attach simulation failed",
			"request_id", middleware.GetRequestID(ctx),
			"package", req.PackageName,
			"error", err,
		)
		httputil.WriteError(w, translate(err))
		return
	}

	h.logger.InfoContext(ctx, "attach simulated",
		"request_id", middleware.GetRequestID(ctx),
		"attach_id", sim.AttachID,
		"kind", sim.Decision.Kind.String(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusOK, FromSimulation(sim))
}

// HandleListProfiles handles GET /v1/profiles.
func (h *Handler) HandleListProfiles(w http.ResponseWriter, _ *http.Request) {
	out := make([]*ProfileResponse, 0)
	for _, name := range h.catalog.Names() {
		p, _ := h.catalog.Profile(name)
		out = append(out, FromProfile(p))
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"flagship": h.catalog.Flagship().Name(),
		"legacy":   h.catalog.Legacy().Name(),
		"profiles": out,
	})
}

// HandleGetProfile handles GET /v1/profiles/{name}.
func (h *Handler) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	p, ok := h.catalog.Profile(chi.URLParam(r, "name"))
	if !ok {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "profile not found"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromProfile(p))
}

func (h *Handler) resolve(ctx context.Context, req ProcessRequest) (identity.ProcessContext, switches.Snapshot, error) {
	if err := req.Validate(); err != nil {
		return identity.ProcessContext{}, switches.Snapshot{}, err
	}
	pc, err := h.classifier.Classify(req.PackageName, req.ProcessName)
	if err != nil {
		return identity.ProcessContext{}, switches.Snapshot{}, translate(err)
	}
	snap, err := h.source.Snapshot(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "switch snapshot failed",
			"request_id", middleware.GetRequestID(ctx),
			"error", err,
		)
		return identity.ProcessContext{}, switches.Snapshot{}, dErrors.Wrap(err, dErrors.CodeUnavailable, "switch store unavailable")
	}
	return pc, snap, nil
}

func translate(err error) error {
	switch {
	case errors.Is(err, identity.ErrEmptyIdentity):
		return dErrors.Wrap(err, dErrors.CodeInvalidInput, "package_name and process_name are required")
	case errors.Is(err, hooks.ErrAlreadyAttached), errors.Is(err, spoof.ErrAlreadyApplied):
		return dErrors.Wrap(err, dErrors.CodeConflict, "process already attached")
	default:
		return err
	}
}
