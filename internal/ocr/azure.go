package ocr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"strconv"
	"strings"

	"github.com/Azure/azure-sdk-for-go/services/cognitiveservices/v3.0/computervision"
	"github.com/Azure/go-autorest/autorest"
)

// azureLanguages maps Tesseract language codes onto Azure OCR languages.
// Anything else falls back to automatic detection.
var azureLanguages = map[string]computervision.OcrLanguages{
	"eng": computervision.OcrLanguagesEn,
	"fra": computervision.OcrLanguagesFr,
	"deu": computervision.OcrLanguagesDe,
	"spa": computervision.OcrLanguagesEs,
	"ita": computervision.OcrLanguagesIt,
	"por": computervision.OcrLanguagesPt,
}

// Azure extracts text with the Azure Computer Vision OCR endpoint.
type Azure struct {
	client   computervision.BaseClient
	language computervision.OcrLanguages
}

// NewAzure creates an Azure extractor. endpoint is the resource URL, e.g.
// https://<name>.cognitiveservices.azure.com/.
func NewAzure(endpoint, key, language string) (*Azure, error) {
	if endpoint == "" || key == "" {
		return nil, errors.New("azure OCR requires an endpoint and a key")
	}

	client := computervision.New(endpoint)
	client.Authorizer = autorest.NewCognitiveServicesAuthorizer(key)

	lang, ok := azureLanguages[strings.SplitN(language, "+", 2)[0]]
	if !ok {
		lang = computervision.OcrLanguagesUnk
	}

	return &Azure{client: client, language: lang}, nil
}

// Name implements Extractor.
func (a *Azure) Name() string {
	return "azure"
}

// Extract implements Extractor.
func (a *Azure) Extract(ctx context.Context, img image.Image) (*OCRResult, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	res, err := a.client.RecognizePrintedTextInStream(ctx, true, io.NopCloser(&buf), a.language)
	if err != nil {
		return nil, fmt.Errorf("failed to extract text: %w", err)
	}

	result := fromAzure(res)
	result.Backend = a.Name()
	return result, nil
}

// fromAzure flattens the region/line/word tree into one line of text per
// recognized line.
func fromAzure(res computervision.OcrResult) *OCRResult {
	result := &OCRResult{Regions: []TextRegion{}}
	if res.Regions == nil {
		return result
	}

	var lines []string
	for _, region := range *res.Regions {
		if region.Lines == nil {
			continue
		}
		for _, line := range *region.Lines {
			if line.Words == nil {
				continue
			}
			var words []string
			for _, word := range *line.Words {
				if word.Text == nil || *word.Text == "" {
					continue
				}
				words = append(words, *word.Text)
				tr := TextRegion{Text: *word.Text}
				if word.BoundingBox != nil {
					tr.Bounds = parseAzureBox(*word.BoundingBox)
				}
				result.Regions = append(result.Regions, tr)
			}
			if len(words) > 0 {
				lines = append(lines, strings.Join(words, " "))
			}
		}
	}
	result.FullText = strings.Join(lines, "\n")
	return result
}

// parseAzureBox converts Azure's "left,top,width,height" string to Bounds.
// Malformed boxes yield zero Bounds.
func parseAzureBox(s string) Bounds {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return Bounds{}
	}
	var v [4]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return Bounds{}
		}
		v[i] = n
	}
	return Bounds{X1: v[0], Y1: v[1], X2: v[0] + v[2], Y2: v[1] + v[3]}
}
