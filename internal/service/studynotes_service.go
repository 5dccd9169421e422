package service

import (
	"context"
	"fmt"
	"regexp"

	"ai-docchat-be/internal/dto"
	"ai-docchat-be/pkg/apperror"
	"ai-docchat-be/pkg/llm"
	"ai-docchat-be/pkg/transcript"
)

// youtubeVideoIdPattern accepts watch, embed, shortlink and bare-id URL
// shapes and captures the 11-character video id.
var youtubeVideoIdPattern = regexp.MustCompile(`(?:youtube\.com/(?:[^/]+/.+/|(?:v|e(?:mbed)?)/|.*[?&]v=)|youtu\.be/)([^"&?/\s]{11})`)

// transcriptMaxChars bounds the transcript handed to the generator so a
// multi-hour video does not blow past the model's context window.
const transcriptMaxChars = 30000

const studyNotesPromptFormat = `You are an expert note-taker. Create comprehensive, well-structured study notes from the following video transcript.

Format the notes in Markdown with these sections:
# Title (infer a descriptive title from the content)
## Summary (2-3 sentences)
## Key Concepts (bulleted list of the main ideas)
## Detailed Notes (organized by topic, with sub-headings)
## Quiz (3 Questions) (with answers below each question)

Transcript:
%s`

type IStudyNotesService interface {
	Generate(ctx context.Context, req *dto.GenerateStudyNotesRequest) (*dto.GenerateStudyNotesResponse, error)
}

type studyNotesService struct {
	transcriptProvider transcript.TranscriptProvider
	llmProvider        llm.LLMProvider
}

func NewStudyNotesService(
	transcriptProvider transcript.TranscriptProvider,
	llmProvider llm.LLMProvider,
) IStudyNotesService {
	return &studyNotesService{
		transcriptProvider: transcriptProvider,
		llmProvider:        llmProvider,
	}
}

// Generate turns a YouTube video into structured study notes: resolve the
// video id from the URL, fetch its transcript, and hand a bounded slice of
// it to the generator with the note-taking prompt.
func (s *studyNotesService) Generate(ctx context.Context, req *dto.GenerateStudyNotesRequest) (*dto.GenerateStudyNotesResponse, error) {
	videoId, err := extractVideoId(req.VideoUrl)
	if err != nil {
		return nil, err
	}

	text, err := s.transcriptProvider.Fetch(ctx, videoId)
	if err != nil {
		return nil, err
	}

	if len(text) > transcriptMaxChars {
		text = text[:transcriptMaxChars]
	}

	notes, err := s.llmProvider.Generate(ctx,
		fmt.Sprintf(studyNotesPromptFormat, text),
		llm.WithTemperature(0.3),
	)
	if err != nil {
		return nil, err
	}

	return &dto.GenerateStudyNotesResponse{
		VideoId: videoId,
		Notes:   notes,
	}, nil
}

func extractVideoId(url string) (string, error) {
	match := youtubeVideoIdPattern.FindStringSubmatch(url)
	if match == nil {
		return "", apperror.NewValidationError("invalid YouTube URL")
	}
	return match[1], nil
}
