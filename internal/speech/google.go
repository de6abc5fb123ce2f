package speech

import (
	"context"
	"fmt"
	"math"
	"os"
	"strings"

	texttospeech "cloud.google.com/go/texttospeech/apiv1"
	"cloud.google.com/go/texttospeech/apiv1/texttospeechpb"
	"github.com/googleapis/gax-go/v2"
	"google.golang.org/api/option"
)

// googleClient is the subset of the Cloud Text-to-Speech client we call
type googleClient interface {
	ListVoices(ctx context.Context, req *texttospeechpb.ListVoicesRequest, opts ...gax.CallOption) (*texttospeechpb.ListVoicesResponse, error)
	SynthesizeSpeech(ctx context.Context, req *texttospeechpb.SynthesizeSpeechRequest, opts ...gax.CallOption) (*texttospeechpb.SynthesizeSpeechResponse, error)
	Close() error
}

// GoogleEngine renders speech with Google Cloud Text-to-Speech
type GoogleEngine struct {
	client   googleClient
	language string
}

func newGoogleEngine(ctx context.Context, config Config) (*GoogleEngine, error) {
	var opts []option.ClientOption
	if config.GoogleCredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(config.GoogleCredentialsFile))
	}

	client, err := texttospeech.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create TTS client: %v", ErrUnavailable, err)
	}

	language := config.GoogleLanguage
	if language == "" {
		language = "en-US"
	}

	return &GoogleEngine{client: client, language: language}, nil
}

func (g *GoogleEngine) Name() string { return EngineTypeGoogle.String() }

func (g *GoogleEngine) Close() error {
	return g.client.Close()
}

func (g *GoogleEngine) Voices(ctx context.Context) ([]Voice, error) {
	resp, err := g.client.ListVoices(ctx, &texttospeechpb.ListVoicesRequest{})
	if err != nil {
		return nil, err
	}

	voices := make([]Voice, 0, len(resp.GetVoices()))
	for _, v := range resp.GetVoices() {
		voice := Voice{Name: v.GetName(), Gender: strings.ToLower(v.GetSsmlGender().String())}
		if codes := v.GetLanguageCodes(); len(codes) > 0 {
			voice.Language = codes[0]
		}
		voices = append(voices, voice)
	}
	return voices, nil
}

func (g *GoogleEngine) SynthesizeToFile(ctx context.Context, req Request) error {
	resp, err := g.client.SynthesizeSpeech(ctx, &texttospeechpb.SynthesizeSpeechRequest{
		Input: &texttospeechpb.SynthesisInput{
			InputSource: &texttospeechpb.SynthesisInput_Text{Text: req.Text},
		},
		Voice: &texttospeechpb.VoiceSelectionParams{
			LanguageCode: languageFromVoice(req.Voice, g.language),
			Name:         req.Voice,
		},
		// LINEAR16 content already carries a WAV header
		AudioConfig: &texttospeechpb.AudioConfig{
			AudioEncoding: texttospeechpb.AudioEncoding_LINEAR16,
			SpeakingRate:  speakingRate(req.Rate),
			VolumeGainDb:  volumeGainDb(req.Volume),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to synthesize speech: %w", err)
	}

	if err := os.WriteFile(req.Path, resp.GetAudioContent(), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", req.Path, err)
	}
	return nil
}

// languageFromVoice takes the BCP-47 prefix of names like en-GB-Neural2-A.
func languageFromVoice(voice, fallback string) string {
	parts := strings.SplitN(voice, "-", 3)
	if len(parts) == 3 && len(parts[0]) >= 2 && len(parts[1]) >= 2 {
		return parts[0] + "-" + parts[1]
	}
	return fallback
}

// speakingRate maps -10..10 onto 1/3x..3x, inside the API's 0.25..4 range.
func speakingRate(rate int) float64 {
	return math.Pow(3, float64(rate)/10)
}

// volumeGainDb maps 1..100 percent to -40..0 dB.
func volumeGainDb(volume int) float64 {
	return 20 * math.Log10(float64(volume)/100)
}
