package service

import (
	"context"
	"fmt"
	"strings"

	"ai-docchat-be/internal/dto"
	"ai-docchat-be/pkg/apperror"
	"ai-docchat-be/pkg/llm"
	"ai-docchat-be/pkg/rag/contextbuilder"
	"ai-docchat-be/pkg/rag/retriever"

	"github.com/google/uuid"
)

// noRelevantInfoAnswer is returned without calling the generator when
// retrieval produced nothing usable.
const noRelevantInfoAnswer = "I could not find any relevant information in your documents to answer this question."

const answerSystemPrompt = `You are a helpful assistant that answers questions using ONLY the provided context.
Rules:
1. Answer based on the context below. Do not invent facts that are not in it.
2. If the context does not contain the answer, say so plainly.
3. Be concise and direct.`

type IChatService interface {
	Ask(ctx context.Context, userId uuid.UUID, req *dto.AskRequest) (*dto.AskResponse, error)
}

// QuestionRetriever is the slice of the retriever the chat flow needs.
type QuestionRetriever interface {
	Retrieve(ctx context.Context, question string, userId uuid.UUID, workspaceId *uuid.UUID, useWebAugment bool) (*retriever.RetrievalSet, error)
}

type chatService struct {
	retriever   QuestionRetriever
	assembler   *contextbuilder.Assembler
	llmProvider llm.LLMProvider
}

func NewChatService(
	ret QuestionRetriever,
	assembler *contextbuilder.Assembler,
	llmProvider llm.LLMProvider,
) IChatService {
	return &chatService{
		retriever:   ret,
		assembler:   assembler,
		llmProvider: llmProvider,
	}
}

// Ask runs the retrieve -> assemble -> generate pipeline for one question.
// An empty retrieval short-circuits to a fixed answer, no generator call.
func (s *chatService) Ask(ctx context.Context, userId uuid.UUID, req *dto.AskRequest) (*dto.AskResponse, error) {
	question := strings.TrimSpace(req.Question)
	if question == "" {
		return nil, apperror.NewValidationError("question must not be empty")
	}

	set, err := s.retriever.Retrieve(ctx, question, userId, req.WorkspaceId, req.UseWebSearch)
	if err != nil {
		return nil, err
	}

	block := s.assembler.Assemble(set.Results)
	if block.Empty() {
		return &dto.AskResponse{
			Answer:   noRelevantInfoAnswer,
			Sources:  []string{},
			Degraded: set.Degraded,
		}, nil
	}

	history := []llm.Message{
		{
			Role:    "system",
			Content: fmt.Sprintf("%s\n\nContext:\n%s", answerSystemPrompt, block.Text),
		},
		{
			Role:    "user",
			Content: question,
		},
	}

	answer, err := s.llmProvider.Chat(ctx, history, llm.WithTemperature(0.2))
	if err != nil {
		return nil, err
	}

	return &dto.AskResponse{
		Answer:   answer,
		Sources:  block.Sources,
		Degraded: set.Degraded,
	}, nil
}
