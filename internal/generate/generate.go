// Package generate runs one generation or fix request end to end: pick a
// model, build the prompt, call the completion endpoint, bill the call,
// persist the session, and write the artifact.
package generate

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/theirongolddev/codeassist/internal/config"
	"github.com/theirongolddev/codeassist/internal/model"
	"github.com/theirongolddev/codeassist/internal/prompt"
	"github.com/theirongolddev/codeassist/internal/store"
)

// Kind selects between generating new code and fixing the last result.
type Kind string

const (
	KindGen Kind = "gen"
	KindFix Kind = "fix"
)

const (
	artifactTimeLayout = "20060102_150405"
	artifactFileMode   = 0o644
	fixExt             = "py"
	maxArtifactSuffix  = 100
)

var (
	// ErrRemoteCall wraps any failure of the completion call. The session
	// is left untouched on disk.
	ErrRemoteCall = errors.New("remote call failed")
	// ErrUnsupportedLanguage means gen was asked for a target language
	// with no artifact extension.
	ErrUnsupportedLanguage = errors.New("unsupported target language")
	// ErrUnknownKind means the request kind is neither gen nor fix.
	ErrUnknownKind = errors.New("unknown request kind")
)

// Completer turns a message list into generated text.
type Completer interface {
	Complete(ctx context.Context, modelID string, messages []model.Message) (model.Completion, error)
}

// Request is one gen or fix invocation. Requirement is used by gen,
// ErrorText by fix. Model, when set, overrides the session model.
type Request struct {
	ProjectID   string
	Kind        Kind
	Mode        string
	Lang        string
	Model       string
	Requirement string
	ErrorText   string
	PathHints   string
}

// Plan is a composed request, ready to send.
type Plan struct {
	Model    string
	System   string
	Brief    string
	Messages []model.Message
	Ext      string

	session    *model.Session
	storeModel bool
}

// Result reports a completed call.
type Result struct {
	Path     string
	Model    string
	Cost     float64
	TotalUSD float64
	Usage    *model.Usage
	Entry    model.BillingEntry
}

// Generator runs requests against one session store and completer.
type Generator struct {
	cfg       config.Config
	pricing   config.PricingTable
	sessions  *store.Sessions
	completer Completer
	resolver  ModelResolver
	log       zerolog.Logger
	now       func() time.Time
}

// Option customizes a Generator.
type Option func(*Generator)

// WithResolver sets how gen picks a model when none is given.
func WithResolver(r ModelResolver) Option {
	return func(g *Generator) { g.resolver = r }
}

// WithLogger sets the logger.
func WithLogger(log zerolog.Logger) Option {
	return func(g *Generator) { g.log = log }
}

// WithClock sets the clock used for turn, ledger, and artifact timestamps.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// New returns a Generator. Without WithResolver the current model is kept.
func New(cfg config.Config, sessions *store.Sessions, completer Completer, opts ...Option) *Generator {
	g := &Generator{
		cfg:       cfg,
		pricing:   cfg.PricingTable(),
		sessions:  sessions,
		completer: completer,
		resolver:  KeepModel,
		log:       zerolog.Nop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Compose loads the session, selects the model, and assembles the message
// list. Nothing is written.
func (g *Generator) Compose(req Request) (*Plan, error) {
	var mode, ext string
	switch req.Kind {
	case KindGen:
		e, ok := prompt.Extension(req.Lang)
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, req.Lang)
		}
		mode, ext = req.Mode, e
	case KindFix:
		mode, ext = prompt.ModeCode, fixExt
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKind, req.Kind)
	}

	sess, err := g.sessions.Load(req.ProjectID)
	if err != nil {
		return nil, err
	}

	modelID, storeModel, err := g.selectModel(req, sess)
	if err != nil {
		return nil, err
	}

	head, err := g.sessions.PinnedHead(req.ProjectID, g.cfg.General.SpecHeadLines)
	if err != nil {
		return nil, err
	}

	var brief string
	if req.Kind == KindGen {
		brief = prompt.BuildUserBrief(req.Requirement, req.Lang, head, req.PathHints)
	} else {
		brief = prompt.BuildFixBrief(req.ErrorText, head)
	}

	system := prompt.BuildSystemPrompt(mode)
	history := sess.RecentMessages(min(g.cfg.General.HistoryTurns, config.DefaultHistoryTurns))
	for _, m := range history {
		if !m.Role.Known() {
			g.log.Debug().Str("project", req.ProjectID).Str("role", string(m.Role)).Msg("replaying turn with unrecognized role")
		}
	}

	msgs := make([]model.Message, 0, len(history)+2)
	msgs = append(msgs, model.Message{Role: model.RoleSystem, Content: system})
	msgs = append(msgs, history...)
	msgs = append(msgs, model.Message{Role: model.RoleUser, Content: brief})

	return &Plan{
		Model:      modelID,
		System:     system,
		Brief:      brief,
		Messages:   msgs,
		Ext:        ext,
		session:    sess,
		storeModel: storeModel,
	}, nil
}

// selectModel applies override, then session model, then the configured
// default. Only gen consults the resolver and stores its choice.
func (g *Generator) selectModel(req Request, sess *model.Session) (string, bool, error) {
	if req.Model != "" {
		return req.Model, req.Kind == KindGen, nil
	}
	current := sess.SelectedModel()
	if current == "" {
		current = g.cfg.General.DefaultModel
	}
	if req.Kind != KindGen {
		return current, false, nil
	}
	chosen, err := g.resolver.ResolveModel(current, g.pricing)
	if err != nil {
		return "", false, fmt.Errorf("choosing model: %w", err)
	}
	if chosen == "" {
		chosen = current
	}
	return chosen, true, nil
}

// Run composes and sends req, then records, persists, and writes the artifact.
func (g *Generator) Run(ctx context.Context, req Request) (*Result, error) {
	plan, err := g.Compose(req)
	if err != nil {
		return nil, err
	}
	return g.Execute(ctx, req, plan)
}

// Execute sends a composed plan. On a remote failure nothing is saved.
func (g *Generator) Execute(ctx context.Context, req Request, plan *Plan) (*Result, error) {
	log := g.log.With().Str("project", req.ProjectID).Str("kind", string(req.Kind)).Str("model", plan.Model).Logger()
	log.Debug().Int("messages", len(plan.Messages)).Msg("calling completion endpoint")

	comp, err := g.completer.Complete(ctx, plan.Model, plan.Messages)
	if err != nil {
		log.Debug().Err(err).Msg("completion failed")
		return nil, fmt.Errorf("%w: %w", ErrRemoteCall, err)
	}

	log = log.With().Str("response_id", comp.ResponseID).Logger()
	if comp.Text == "" {
		log.Warn().Str("status", comp.Status).Msg("completion returned no text; billing it anyway")
	}

	now := g.now()
	cost := g.pricing.EstimateCost(plan.Model, comp.Usage)

	sess := plan.session
	if plan.storeModel {
		sess.SetModel(plan.Model)
	}
	sess.AddTurn(model.RoleUser, plan.Brief, nil, now)
	sess.AddTurn(model.RoleAssistant, comp.Text, comp.Usage, now)
	entry := sess.Billing.Record(now, plan.Model, comp.Usage, cost)

	if err := g.sessions.Save(sess); err != nil {
		return nil, fmt.Errorf("saving session: %w", err)
	}

	path, err := g.writeArtifact(req, plan.Ext, comp.Text, now)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("artifact", path).
		Int64("input_tokens", comp.Usage.Input()).
		Int64("output_tokens", comp.Usage.Output()).
		Float64("cost_usd", cost).
		Float64("total_usd", sess.Billing.TotalUSD).
		Msg("generation recorded")

	return &Result{
		Path:     path,
		Model:    plan.Model,
		Cost:     cost,
		TotalUSD: sess.Billing.TotalUSD,
		Usage:    comp.Usage,
		Entry:    entry,
	}, nil
}

// writeArtifact creates the output file without overwriting an earlier one
// written in the same second.
func (g *Generator) writeArtifact(req Request, ext, text string, at time.Time) (string, error) {
	dir := g.cfg.OutputsDir()
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("creating outputs dir: %w", err)
	}

	stem := req.ProjectID + "_" + at.Format(artifactTimeLayout)
	if req.Kind == KindFix {
		stem = req.ProjectID + "_fixed_" + at.Format(artifactTimeLayout)
	}

	for i := 0; i < maxArtifactSuffix; i++ {
		name := stem + "." + ext
		if i > 0 {
			name = fmt.Sprintf("%s_%d.%s", stem, i, ext)
		}
		path := filepath.Join(dir, name)

		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, artifactFileMode) //nolint:gosec // path is built from a validated project id
		if errors.Is(err, os.ErrExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("creating artifact: %w", err)
		}
		if _, err := f.WriteString(text); err != nil {
			_ = f.Close()
			return "", fmt.Errorf("writing artifact: %w", err)
		}
		if err := f.Close(); err != nil {
			return "", fmt.Errorf("closing artifact: %w", err)
		}
		return path, nil
	}
	return "", fmt.Errorf("creating artifact: too many files named %s.*", stem)
}
