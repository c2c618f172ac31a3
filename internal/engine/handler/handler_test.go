package handler_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"codee/internal/engine"
	"codee/internal/engine/handler"
	"codee/internal/engine/handler/mocks"
	"codee/internal/platform/middleware"
	"codee/internal/rules"
	dErrors "codee/pkg/domain-errors"
)

const signingKey = "test-signing-key"

type HandlerSuite struct {
	suite.Suite

	ctrl   *gomock.Controller
	engine *mocks.MockService
	router chi.Router
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.engine = mocks.NewMockService(s.ctrl)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	h := handler.New(s.engine, logger, middleware.NewHMACValidator(signingKey))

	s.router = chi.NewRouter()
	h.Register(s.router)
}

func (s *HandlerSuite) TearDownTest() {
	s.ctrl.Finish()
}

func (s *HandlerSuite) adminToken() string {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "ops",
		"role": "admin",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(signingKey))
	s.Require().NoError(err)
	return signed
}

func (s *HandlerSuite) TestEvaluate() {
	s.Run("returns the decision", func() {
		s.engine.EXPECT().
			Evaluate(gomock.Any(), gomock.Any()).
			Return(engine.Decision{
				NextState:      "eligible_ali",
				Message:        "bonne nouvelle",
				IsFinal:        true,
				EligibilityTag: rules.TagALI,
			}, nil)

		body, _ := json.Marshal(engine.EvaluateRequest{
			ConversationID: "c1",
			CurrentState:   "city_verification_young_rsa",
			NLP:            engine.NLPData{Text: "saint-denis"},
		})
		rec := httptest.NewRecorder()
		s.router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/evaluate", bytes.NewReader(body)))

		s.Equal(http.StatusOK, rec.Code)

		var decision engine.Decision
		s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &decision))
		s.Equal("eligible_ali", decision.NextState)
		s.True(decision.IsFinal)
		s.Equal(rules.TagALI, decision.EligibilityTag)
	})

	s.Run("malformed body is a bad request", func() {
		rec := httptest.NewRecorder()
		s.router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/evaluate", bytes.NewReader([]byte("{not json"))))

		s.Equal(http.StatusBadRequest, rec.Code)
		s.Contains(rec.Body.String(), "bad_request")
	})

	s.Run("service validation error is a bad request", func() {
		s.engine.EXPECT().
			Evaluate(gomock.Any(), gomock.Any()).
			Return(engine.Decision{}, dErrors.New(dErrors.CodeBadRequest, "conversation_id and current_state are required"))

		rec := httptest.NewRecorder()
		s.router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/evaluate", bytes.NewReader([]byte(`{}`))))

		s.Equal(http.StatusBadRequest, rec.Code)
	})
}

func (s *HandlerSuite) TestRulesEndpointIsGuarded() {
	s.Run("missing token is unauthorized", func() {
		rec := httptest.NewRecorder()
		s.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/rules/", nil))
		s.Equal(http.StatusUnauthorized, rec.Code)
	})

	s.Run("non-admin token is forbidden", func() {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"sub":  "someone",
			"role": "viewer",
			"exp":  time.Now().Add(time.Hour).Unix(),
		})
		signed, err := token.SignedString([]byte(signingKey))
		s.Require().NoError(err)

		req := httptest.NewRequest(http.MethodGet, "/rules/", nil)
		req.Header.Set("Authorization", "Bearer "+signed)
		rec := httptest.NewRecorder()
		s.router.ServeHTTP(rec, req)
		s.Equal(http.StatusForbidden, rec.Code)
	})

	s.Run("admin token gets the tree", func() {
		tree := rules.DefaultTree(62)
		s.Require().NoError(tree.Compile())
		s.engine.EXPECT().Tree().Return(tree)

		req := httptest.NewRequest(http.MethodGet, "/rules/", nil)
		req.Header.Set("Authorization", "Bearer "+s.adminToken())
		rec := httptest.NewRecorder()
		s.router.ServeHTTP(rec, req)

		s.Equal(http.StatusOK, rec.Code)
		s.Contains(rec.Body.String(), "age_verification")
	})

	s.Run("validate reports a clean default tree", func() {
		tree := rules.DefaultTree(62)
		s.Require().NoError(tree.Compile())
		s.engine.EXPECT().Tree().Return(tree)

		req := httptest.NewRequest(http.MethodGet, "/rules/validate", nil)
		req.Header.Set("Authorization", "Bearer "+s.adminToken())
		rec := httptest.NewRecorder()
		s.router.ServeHTTP(rec, req)

		s.Equal(http.StatusOK, rec.Code)
	})
}
