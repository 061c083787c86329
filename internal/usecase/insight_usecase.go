package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// InsightUsecase は商品説明の生成APIを呼ぶ薄いプロキシです。
// 外部APIが落ちていても定型文で返すので、このusecaseはエラーを返さない
// （promptが空のときだけ400）。
type InsightUsecase struct {
	client *http.Client
	apiURL string
	apiKey string
}

// DI
func NewInsightUsecase(client *http.Client, apiURL string, apiKey string) *InsightUsecase {
	if client == nil {
		client = http.DefaultClient
	}
	return &InsightUsecase{
		client: client,
		apiURL: apiURL,
		apiKey: apiKey,
	}
}

type InsightOutput struct {
	Insight string `json:"insight"`
}

// 生成APIのリクエスト/レスポンスの形
type generateRequest struct {
	Contents []generateContent `json:"contents"`
}

type generateContent struct {
	Parts []generatePart `json:"parts"`
}

type generatePart struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

func (u *InsightUsecase) Generate(ctx context.Context, prompt string) (InsightOutput, error) {
	if strings.TrimSpace(prompt) == "" {
		return InsightOutput{}, NewHTTPError(http.StatusBadRequest, "prompt is required")
	}

	text, err := u.callAPI(ctx, prompt)
	if err != nil || text == "" {
		// API障害時は定型の説明文にフォールバック
		return InsightOutput{Insight: fallbackInsight(prompt)}, nil
	}

	return InsightOutput{Insight: text}, nil
}

func (u *InsightUsecase) callAPI(ctx context.Context, prompt string) (string, error) {
	if u.apiURL == "" || u.apiKey == "" {
		return "", fmt.Errorf("insight api not configured")
	}

	body, err := json.Marshal(generateRequest{
		Contents: []generateContent{
			{Parts: []generatePart{{Text: prompt}}},
		},
	})
	if err != nil {
		return "", err
	}

	url := u.apiURL + "?key=" + u.apiKey
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := u.client.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("insight api status %d", res.StatusCode)
	}

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return "", err
	}

	var out generateResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", err
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty candidates")
	}

	return out.Candidates[0].Content.Parts[0].Text, nil
}

// promptから商品名を拾って定型文を組み立てる。
// "Tell me about <name>. ..." の形を想定し、取れなければ汎用の名前にする。
func fallbackInsight(prompt string) string {
	productName := "this product"
	if _, after, ok := strings.Cut(prompt, "about"); ok {
		head, _, _ := strings.Cut(after, ".")
		if s := strings.TrimSpace(head); s != "" {
			productName = s
		}
	}

	return fmt.Sprintf(`**%s - Product Information**

**Nutritional Benefits:**
- Rich in essential vitamins and minerals
- Provides natural energy and nutrients
- Supports overall health and wellness

**Storage Tips:**
- Store in a cool, dry place
- Keep away from direct sunlight
- Check expiration dates regularly

**Usage Suggestions:**
- Perfect for daily consumption
- Can be used in various recipes
- Great for meal preparation

**Quality Indicators:**
- Look for fresh appearance
- Check for proper packaging
- Ensure product is within expiry date

*Note: This is general product information. For specific nutritional details, please consult product packaging.*`, productName)
}
