package transcript

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"ai-docchat-be/pkg/apperror"
)

// captionTracksPattern locates the caption track list embedded in the
// watch page's player response JSON.
var captionTracksPattern = regexp.MustCompile(`"captionTracks":(\[.*?\])`)

type YouTubeProvider struct {
	BaseUrl string
	Client  *http.Client
}

func NewYouTubeProvider() TranscriptProvider {
	return &YouTubeProvider{
		BaseUrl: "https://www.youtube.com",
		Client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type captionTrack struct {
	BaseUrl      string `json:"baseUrl"`
	LanguageCode string `json:"languageCode"`
}

type timedText struct {
	Texts []struct {
		Value string `xml:",chardata"`
	} `xml:"text"`
}

// Fetch scrapes the video's watch page for its caption track list, then
// downloads and flattens the track into plain text. A video without
// caption tracks yields a provider error, not an empty transcript.
func (p *YouTubeProvider) Fetch(ctx context.Context, videoId string) (string, error) {
	tracks, err := p.fetchCaptionTracks(ctx, videoId)
	if err != nil {
		return "", err
	}
	if len(tracks) == 0 {
		return "", apperror.NewProviderError("youtube", "transcript",
			fmt.Errorf("video %s has no caption tracks", videoId))
	}

	track := pickTrack(tracks)
	body, err := p.get(ctx, track.BaseUrl)
	if err != nil {
		return "", err
	}

	var tt timedText
	if err := xml.Unmarshal(body, &tt); err != nil {
		return "", apperror.NewProviderError("youtube", "transcript", err)
	}

	parts := make([]string, 0, len(tt.Texts))
	for _, t := range tt.Texts {
		text := strings.TrimSpace(html.UnescapeString(t.Value))
		if text != "" {
			parts = append(parts, text)
		}
	}
	if len(parts) == 0 {
		return "", apperror.NewProviderError("youtube", "transcript",
			fmt.Errorf("caption track for video %s is empty", videoId))
	}
	return strings.Join(parts, " "), nil
}

func (p *YouTubeProvider) fetchCaptionTracks(ctx context.Context, videoId string) ([]captionTrack, error) {
	body, err := p.get(ctx, p.BaseUrl+"/watch?v="+videoId)
	if err != nil {
		return nil, err
	}

	match := captionTracksPattern.FindSubmatch(body)
	if match == nil {
		return nil, nil
	}

	var tracks []captionTrack
	if err := json.Unmarshal(match[1], &tracks); err != nil {
		return nil, apperror.NewProviderError("youtube", "transcript", err)
	}
	return tracks, nil
}

// pickTrack prefers an English track; otherwise the first one offered.
func pickTrack(tracks []captionTrack) captionTrack {
	for _, t := range tracks {
		if strings.HasPrefix(t.LanguageCode, "en") {
			return t
		}
	}
	return tracks[0]
}

func (p *YouTubeProvider) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, apperror.NewProviderError("youtube", "transcript", err)
	}
	req.Header.Set("Accept-Language", "en-US")

	res, err := p.Client.Do(req)
	if err != nil {
		return nil, apperror.NewProviderError("youtube", "transcript", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, apperror.NewProviderError("youtube", "transcript", err)
	}
	if res.StatusCode != http.StatusOK {
		return nil, apperror.NewProviderError("youtube", "transcript",
			fmt.Errorf("unexpected status %d", res.StatusCode))
	}
	return body, nil
}
