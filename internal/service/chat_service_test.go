package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"ai-docchat-be/internal/dto"
	"ai-docchat-be/pkg/apperror"
	"ai-docchat-be/pkg/llm"
	"ai-docchat-be/pkg/rag/contextbuilder"
	"ai-docchat-be/pkg/rag/retriever"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockQuestionRetriever struct {
	mock.Mock
}

func (m *mockQuestionRetriever) Retrieve(ctx context.Context, question string, userId uuid.UUID, workspaceId *uuid.UUID, useWebAugment bool) (*retriever.RetrievalSet, error) {
	args := m.Called(ctx, question, userId, workspaceId, useWebAugment)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*retriever.RetrievalSet), args.Error(1)
}

type mockLLMProvider struct {
	mock.Mock
}

func (m *mockLLMProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	args := m.Called(ctx, history)
	return args.String(0), args.Error(1)
}

func (m *mockLLMProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

func TestAskEmptyQuestionRejected(t *testing.T) {
	ret := new(mockQuestionRetriever)
	lp := new(mockLLMProvider)
	svc := NewChatService(ret, contextbuilder.NewAssembler(0), lp)

	_, err := svc.Ask(context.Background(), uuid.New(), &dto.AskRequest{Question: "   "})

	assert.True(t, apperror.IsValidationError(err))
	ret.AssertNotCalled(t, "Retrieve", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestAskNoResultsSkipsGenerator(t *testing.T) {
	ret := new(mockQuestionRetriever)
	ret.On("Retrieve", mock.Anything, "unknown topic", mock.Anything, (*uuid.UUID)(nil), false).
		Return(&retriever.RetrievalSet{Results: []retriever.RetrievalResult{}}, nil)

	lp := new(mockLLMProvider)
	svc := NewChatService(ret, contextbuilder.NewAssembler(0), lp)

	res, err := svc.Ask(context.Background(), uuid.New(), &dto.AskRequest{Question: "unknown topic"})

	assert.NoError(t, err)
	assert.Equal(t, noRelevantInfoAnswer, res.Answer)
	assert.Empty(t, res.Sources)
	lp.AssertNotCalled(t, "Chat", mock.Anything, mock.Anything)
}

func TestAskAnswersFromContext(t *testing.T) {
	ret := new(mockQuestionRetriever)
	ret.On("Retrieve", mock.Anything, "what is the refund policy", mock.Anything, (*uuid.UUID)(nil), false).
		Return(&retriever.RetrievalSet{
			Results: []retriever.RetrievalResult{
				{Content: "Refunds within 30 days.", Origin: retriever.OriginDocumentChunk, Source: "Policy Doc", Score: 0.9},
			},
		}, nil)

	lp := new(mockLLMProvider)
	lp.On("Chat", mock.Anything, mock.MatchedBy(func(history []llm.Message) bool {
		return len(history) == 2 &&
			history[0].Role == "system" &&
			strings.Contains(history[0].Content, "Refunds within 30 days.") &&
			history[1].Role == "user" &&
			history[1].Content == "what is the refund policy"
	})).Return("Refunds are accepted within 30 days.", nil)

	svc := NewChatService(ret, contextbuilder.NewAssembler(0), lp)

	res, err := svc.Ask(context.Background(), uuid.New(), &dto.AskRequest{Question: "what is the refund policy"})

	assert.NoError(t, err)
	assert.Equal(t, "Refunds are accepted within 30 days.", res.Answer)
	assert.Equal(t, []string{"Policy Doc"}, res.Sources)
	assert.False(t, res.Degraded)
	lp.AssertExpectations(t)
}

func TestAskPropagatesDegradedFlag(t *testing.T) {
	ret := new(mockQuestionRetriever)
	ret.On("Retrieve", mock.Anything, mock.Anything, mock.Anything, (*uuid.UUID)(nil), true).
		Return(&retriever.RetrievalSet{
			Results: []retriever.RetrievalResult{
				{Content: "chunk", Origin: retriever.OriginDocumentChunk, Source: "Doc", Score: 0.8},
			},
			Degraded: true,
		}, nil)

	lp := new(mockLLMProvider)
	lp.On("Chat", mock.Anything, mock.Anything).Return("answer", nil)

	svc := NewChatService(ret, contextbuilder.NewAssembler(0), lp)

	res, err := svc.Ask(context.Background(), uuid.New(), &dto.AskRequest{Question: "anything", UseWebSearch: true})

	assert.NoError(t, err)
	assert.True(t, res.Degraded)
}

func TestAskRetrievalErrorPropagates(t *testing.T) {
	ret := new(mockQuestionRetriever)
	ret.On("Retrieve", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, apperror.NewProviderError("gemini", "embed", errors.New("rate limited")))

	lp := new(mockLLMProvider)
	svc := NewChatService(ret, contextbuilder.NewAssembler(0), lp)

	_, err := svc.Ask(context.Background(), uuid.New(), &dto.AskRequest{Question: "anything"})

	assert.True(t, apperror.IsProviderError(err))
	lp.AssertNotCalled(t, "Chat", mock.Anything, mock.Anything)
}

func TestAskGeneratorErrorPropagates(t *testing.T) {
	ret := new(mockQuestionRetriever)
	ret.On("Retrieve", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(&retriever.RetrievalSet{
			Results: []retriever.RetrievalResult{
				{Content: "chunk", Origin: retriever.OriginDocumentChunk, Source: "Doc", Score: 0.8},
			},
		}, nil)

	lp := new(mockLLMProvider)
	lp.On("Chat", mock.Anything, mock.Anything).
		Return("", apperror.NewProviderError("groq", "generate", errors.New("timeout")))

	svc := NewChatService(ret, contextbuilder.NewAssembler(0), lp)

	_, err := svc.Ask(context.Background(), uuid.New(), &dto.AskRequest{Question: "anything"})

	assert.True(t, apperror.IsProviderError(err))
}
