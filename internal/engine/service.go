package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"codee/internal/audit"
	"codee/internal/city"
	"codee/internal/engine/metrics"
	"codee/internal/extract"
	"codee/internal/facts"
	"codee/internal/rules"
	dErrors "codee/pkg/domain-errors"
	"codee/pkg/platform/sentinel"
	"codee/pkg/requestcontext"
)

// StateError is the pseudo-state returned when the caller submits a state id
// the rule tree does not know. The conversation is not final; the client is
// expected to restart from initial.
const StateError = "error"

// Retry prompts returned when a turn could not be interpreted.
const (
	msgRetryAge     = "Je n'ai pas compris ton âge. Pourrais-tu me dire quel âge tu as, en chiffres (par exemple 25) ou en lettres (par exemple trente ans) ?"
	msgRetryCity    = "Je n'ai pas reconnu cette ville. Pourrais-tu préciser dans quelle ville tu habites ? Par exemple : Saint-Denis, Stains, Pierrefitte, ou indiquer le code postal comme 93200."
	msgRetryYesNo   = "Je n'ai pas compris ta réponse. Pourrais-tu répondre simplement par oui ou par non ?"
	msgUnknownState = "État non reconnu dans l'arbre de décision."
	msgFallback     = "Comment puis-je t'aider ?"
)

// AuditEmitter receives final decisions for recording. Emit must not block.
type AuditEmitter interface {
	Emit(ctx context.Context, decision audit.Decision)
}

// Service evaluates conversation turns against the rule tree.
type Service struct {
	logger    *slog.Logger
	tree      *rules.Tree
	cities    *city.Index
	extractor *extract.Extractor
	store     facts.Store
	locks     *facts.Locker
	metrics   *metrics.Metrics
	audit     AuditEmitter
	tracer    trace.Tracer
}

// Option configures a Service.
type Option func(*Service)

// WithMetrics attaches engine metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithAudit attaches a sink for final decisions.
func WithAudit(emitter AuditEmitter) Option {
	return func(s *Service) { s.audit = emitter }
}

// NewService creates the evaluation service.
func NewService(logger *slog.Logger, tree *rules.Tree, cities *city.Index, store facts.Store, opts ...Option) *Service {
	s := &Service{
		logger:    logger,
		tree:      tree,
		cities:    cities,
		extractor: extract.New(cities),
		store:     store,
		locks:     facts.NewLocker(),
		tracer:    otel.Tracer("codee/engine"),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Tree exposes the loaded rule tree for the admin endpoints.
func (s *Service) Tree() *rules.Tree { return s.tree }

// Evaluate processes one turn: load facts, interpret the utterance, walk the
// tree, persist the updated facts, and return the decision.
func (s *Service) Evaluate(ctx context.Context, req EvaluateRequest) (Decision, error) {
	start := time.Now()
	defer s.metrics.ObserveEvaluate(start)

	ctx, span := s.tracer.Start(ctx, "engine.Evaluate", trace.WithAttributes(
		attribute.String("conversation.id", req.ConversationID),
		attribute.String("conversation.state", req.CurrentState),
	))
	defer span.End()

	if req.ConversationID == "" || req.CurrentState == "" {
		s.metrics.IncrementEvaluation(metrics.OutcomeError)
		return Decision{}, dErrors.New(dErrors.CodeBadRequest, "conversation_id and current_state are required")
	}

	// One turn at a time per conversation, or concurrent saves would drop
	// each other's extracted facts.
	unlock := s.locks.Lock(req.ConversationID)
	defer unlock()

	f, err := s.store.Get(ctx, req.ConversationID)
	if errors.Is(err, sentinel.ErrNotFound) {
		f = &facts.Facts{}
	} else if err != nil {
		s.metrics.IncrementEvaluation(metrics.OutcomeError)
		return Decision{}, dErrors.Wrap(dErrors.CodeUnavailable, "fact store unavailable", err)
	}

	f.Merge(req.facts(s.cities))

	decision := s.evaluateTurn(ctx, req, f)

	// A turn that dead-ends in the error pseudo-state never happened as far
	// as the fact store is concerned.
	if decision.NextState != StateError {
		f.UpdatedAt = requestcontext.Now(ctx)
		if err := s.store.Save(ctx, req.ConversationID, f); err != nil {
			s.metrics.IncrementEvaluation(metrics.OutcomeError)
			return Decision{}, dErrors.Wrap(dErrors.CodeUnavailable, "fact store unavailable", err)
		}
	}

	s.observe(ctx, req, f, decision, start)
	return decision, nil
}

func (s *Service) observe(ctx context.Context, req EvaluateRequest, f *facts.Facts, decision Decision, start time.Time) {
	outcome := metrics.OutcomeAdvanced
	switch {
	case decision.NextState == StateError:
		outcome = metrics.OutcomeError
	case decision.IsFinal:
		outcome = metrics.OutcomeFinal
	case decision.NextState == req.CurrentState:
		outcome = metrics.OutcomeReprompt
	}
	s.metrics.IncrementEvaluation(outcome)

	if decision.IsFinal && decision.EligibilityTag != "" {
		s.metrics.IncrementEligibility(decision.EligibilityTag)
		if s.audit != nil {
			record := audit.Decision{
				ID:             uuid.New(),
				ConversationID: req.ConversationID,
				FinalState:     decision.NextState,
				EligibilityTag: decision.EligibilityTag,
				Age:            f.Age,
				RSA:            f.RSA,
				Schooling:      f.Schooling,
				RequestID:      requestcontext.RequestID(ctx),
				DecidedAt:      requestcontext.Now(ctx),
			}
			if f.City != nil {
				record.City = string(*f.City)
			}
			s.audit.Emit(ctx, record)
		}
	}

	s.logger.InfoContext(ctx, "turn evaluated",
		"request_id", requestcontext.RequestID(ctx),
		"conversation_id", req.ConversationID,
		"current_state", req.CurrentState,
		"next_state", decision.NextState,
		"is_final", decision.IsFinal,
		"outcome", outcome,
		"duration_ms", time.Since(start).Milliseconds(),
	)
}

// evaluateTurn resolves a pending city confirmation, then evaluates the
// current state.
func (s *Service) evaluateTurn(ctx context.Context, req EvaluateRequest, f *facts.Facts) Decision {
	if f.Pending != nil {
		return s.resolvePending(ctx, req, f)
	}
	return s.evaluateState(ctx, req.CurrentState, req, f)
}

func (s *Service) resolvePending(ctx context.Context, req EvaluateRequest, f *facts.Facts) Decision {
	pending := f.Pending
	confirmed, answered := extract.YesNo(req.NLP.Intent, req.NLP.Text)
	if !answered {
		return Decision{NextState: req.CurrentState, Message: confirmQuestion(pending.SuggestedCity, pending.Score)}
	}

	f.Pending = nil
	if !confirmed {
		// Rejected suggestion: ask the city question again.
		if state, ok := s.tree.Get(pending.ResumeState); ok && state.Prompt != "" {
			return Decision{NextState: pending.ResumeState, Message: state.Prompt}
		}
		return Decision{NextState: pending.ResumeState, Message: msgRetryCity}
	}

	f.City = facts.CityOf(pending.SuggestedCity)
	return s.evaluateState(ctx, pending.ResumeState, req, f)
}

func (s *Service) evaluateState(ctx context.Context, stateID string, req EvaluateRequest, f *facts.Facts) Decision {
	state, ok := s.tree.Get(stateID)
	if !ok {
		s.logger.WarnContext(ctx, "unknown state submitted",
			"request_id", requestcontext.RequestID(ctx),
			"conversation_id", req.ConversationID,
			"state", stateID,
		)
		return Decision{NextState: StateError, Message: msgUnknownState}
	}

	if decision, done := s.extractFact(state, stateID, req, f); done {
		return decision
	}

	answer, answered := extract.YesNo(req.NLP.Intent, req.NLP.Text)
	if state.Records != "" {
		if answered {
			switch state.Records {
			case rules.FactRSA:
				f.RSA = facts.BoolOf(answer)
			case rules.FactSchooling:
				f.Schooling = facts.BoolOf(answer)
			}
		} else if known, ok := recordedValue(state.Records, f); ok {
			// The fact arrived earlier; the state can advance without a
			// readable answer in this turn.
			answer, answered = known, true
		}
	}

	env := rules.Env{Facts: f, Cities: s.cities}

	for _, override := range s.tree.Overrides {
		if override.Matches(env) {
			s.metrics.IncrementOverride()
			return Decision{
				NextState:      override.Next,
				Message:        override.Message,
				IsFinal:        true,
				EligibilityTag: override.EligibilityTag,
			}
		}
	}

	for _, transition := range state.Transitions {
		if transition.Matches(env) {
			return Decision{
				NextState:      transition.Next,
				Message:        transition.Message,
				IsFinal:        transition.IsFinal,
				EligibilityTag: transition.EligibilityTag,
			}
		}
	}

	if state.Responses != nil {
		if answered {
			branch := state.Responses.No
			if answer {
				branch = state.Responses.Yes
			}
			if branch != nil {
				return Decision{
					NextState:      branch.Next,
					Message:        branch.Message,
					IsFinal:        branch.IsFinal,
					EligibilityTag: branch.EligibilityTag,
				}
			}
		} else if state.Responses.Yes != nil && state.Responses.No != nil {
			s.metrics.IncrementReprompt("yes_no")
			return Decision{NextState: stateID, Message: msgRetryYesNo}
		}
	}

	if state.DefaultNext != "" {
		message := state.Prompt
		if next, ok := s.tree.Get(state.DefaultNext); ok && next.Prompt != "" {
			message = next.Prompt
		}
		return Decision{NextState: state.DefaultNext, Message: message}
	}

	if state.IsFinal {
		return Decision{
			NextState:      stateID,
			Message:        state.Prompt,
			IsFinal:        true,
			EligibilityTag: state.EligibilityTag,
		}
	}

	message := state.Prompt
	if message == "" {
		message = msgFallback
	}
	return Decision{NextState: stateID, Message: message}
}

// extractFact runs the state's extraction step. done=true means the turn is
// already decided: the fact could not be read, is out of the covered area, or
// needs confirmation.
func (s *Service) extractFact(state *rules.State, stateID string, req EvaluateRequest, f *facts.Facts) (Decision, bool) {
	switch state.Extract {
	case rules.FactAge:
		age, ok := s.extractor.Age(req.NLP.Text, f)
		if !ok {
			s.metrics.IncrementReprompt("age")
			return Decision{NextState: stateID, Message: msgRetryAge}, true
		}
		f.Age = facts.AgeOf(age)

	case rules.FactCity:
		result := s.extractor.City(req.NLP.Text, f)
		switch {
		case result.Resolved != nil:
			f.City = result.Resolved

		case result.OutOfZone:
			// A recognized municipality outside the covered area is a
			// definitive answer, not a misunderstanding.
			if terminal, ok := s.tree.Get("not_eligible_city"); ok {
				return Decision{
					NextState:      "not_eligible_city",
					Message:        terminal.Prompt,
					IsFinal:        true,
					EligibilityTag: terminal.EligibilityTag,
				}, true
			}
			return Decision{
				NextState:      "not_eligible_city",
				Message:        msgRetryCity,
				IsFinal:        true,
				EligibilityTag: rules.TagNotEligibleCity,
			}, true

		case result.Suggestion != nil:
			f.Pending = &facts.PendingConfirmation{
				SuggestedCity: result.Suggestion.City,
				Score:         result.Suggestion.Score,
				ResumeState:   stateID,
			}
			s.metrics.IncrementFuzzyConfirmation()
			return Decision{NextState: stateID, Message: confirmQuestion(result.Suggestion.City, result.Suggestion.Score)}, true

		default:
			s.metrics.IncrementReprompt("city")
			return Decision{NextState: stateID, Message: msgRetryCity}, true
		}
	}
	return Decision{}, false
}

func recordedValue(kind rules.FactKind, f *facts.Facts) (bool, bool) {
	switch kind {
	case rules.FactRSA:
		if f.RSA != nil {
			return *f.RSA, true
		}
	case rules.FactSchooling:
		if f.Schooling != nil {
			return *f.Schooling, true
		}
	}
	return false, false
}

func confirmQuestion(c city.City, score int) string {
	return fmt.Sprintf("Je n'ai pas trouvé cette ville exactement. Est-ce que tu voulais dire %s (ressemblance %d%%) ? Réponds par oui ou par non.", displayCity(c), score)
}

// displayCity renders a canonical city id for a user-facing message.
func displayCity(c city.City) string {
	parts := strings.Split(string(c), "-")
	for i, part := range parts {
		if part == "" {
			continue
		}
		runes := []rune(part)
		parts[i] = strings.ToUpper(string(runes[0])) + string(runes[1:])
	}
	return strings.Join(parts, "-")
}
