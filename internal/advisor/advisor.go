// Package advisor calls Google Gemini for study-productivity analysis.
// Every call is single shot: a failure, including a safety block, is
// surfaced once to the caller and never retried.
package advisor

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1/models"

// ErrNoAPIKey is returned before any network attempt when the client
// has no key configured.
var ErrNoAPIKey = errors.New("gemini api key not configured")

// Client talks to the Gemini generateContent endpoint.
type Client struct {
	apiKey  string
	model   string
	baseURL string
	httpc   *http.Client
}

// New creates a Client. The model falls back to gemini-1.5-flash when
// empty; an empty key is allowed here and rejected at call time so a
// client can be constructed from unvalidated settings.
func New(apiKey, model string) *Client {
	if model == "" {
		model = "gemini-1.5-flash"
	}
	return &Client{
		apiKey:  apiKey,
		model:   model,
		baseURL: defaultBaseURL,
		httpc:   http.DefaultClient,
	}
}

// WithBaseURL points the client at a different endpoint. Used in tests.
func (c *Client) WithBaseURL(u string) *Client {
	c.baseURL = strings.TrimSuffix(u, "/")
	return c
}

type apiRequest struct {
	Contents []apiContent `json:"contents"`
}

type apiContent struct {
	Role  string    `json:"role,omitempty"`
	Parts []apiPart `json:"parts"`
}

type apiPart struct {
	Text string `json:"text"`
}

type apiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []apiPart `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason"`
	} `json:"promptFeedback,omitempty"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func (c *Client) generate(contents []apiContent) (string, error) {
	if c.apiKey == "" {
		return "", ErrNoAPIKey
	}

	jsonBody, err := json.Marshal(apiRequest{Contents: contents})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequest("POST", url, bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	var apiResp apiResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return "", fmt.Errorf("unmarshal response (status %d): %w", resp.StatusCode, err)
	}

	if apiResp.Error != nil {
		return "", fmt.Errorf("api error (status %d): %s", resp.StatusCode, apiResp.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("api error (status %d): %s", resp.StatusCode, string(body))
	}

	if len(apiResp.Candidates) == 0 {
		// A safety block arrives as an empty candidate list with a
		// reason; pass the reason through verbatim.
		if apiResp.PromptFeedback != nil && apiResp.PromptFeedback.BlockReason != "" {
			return "", fmt.Errorf("blocked by gemini safety filters: %s", apiResp.PromptFeedback.BlockReason)
		}
		return "", errors.New("empty response from gemini")
	}
	if len(apiResp.Candidates[0].Content.Parts) == 0 {
		return "", errors.New("empty response from gemini")
	}
	return apiResp.Candidates[0].Content.Parts[0].Text, nil
}

func (c *Client) ask(prompt string) (string, error) {
	return c.generate([]apiContent{
		{Role: "user", Parts: []apiPart{{Text: prompt}}},
	})
}

// EstimateDailyProductivity analyzes one day of tracked activity.
func (c *Client) EstimateDailyProductivity(trackedData string) (string, error) {
	prompt := "به عنوان یک دستیار هوش مصنوعی متخصص در بهره‌وری عمل کن. " +
		"لطفاً این داده‌های فعالیت روزانه را تحلیل کن و یک تخمین از بهره‌وری ارائه بده. " +
		"نکات کلیدی و پیشنهادهایی برای بهبود را نیز شامل کن. تمام پاسخ را به زبان فارسی بنویس.\n\n" +
		"داده‌های فعالیت:\n" + trackedData
	return c.ask(prompt)
}

// WeeklyReport is a generated productivity report split into its three
// requested sections.
type WeeklyReport struct {
	Summary                 string `json:"summary"`
	Insights                string `json:"insights"`
	OptimizationSuggestions string `json:"optimization_suggestions"`
}

// GenerateWeeklyReport produces a weekly productivity report. Optional
// historical data is appended for comparison.
func (c *Client) GenerateWeeklyReport(weeklyData, historicalData string) (*WeeklyReport, error) {
	prompt := "به عنوان یک دستیار هوش مصنوعی تحلیلگر داده‌های بهره‌وری عمل کن. " +
		"لطفاً داده‌های هفتگی زیر را تحلیل کن و یک گزارش جامع ارائه بده که شامل: " +
		"1) خلاصه بهره‌وری هفته، 2) تحلیل الگوهای مدیریت زمان، و " +
		"3) پیشنهادهایی برای بهینه‌سازی تمرکز و برنامه‌ریزی باشد. تمام پاسخ را به زبان فارسی بنویس.\n\n" +
		"داده‌های هفتگی:\n" + weeklyData
	if historicalData != "" {
		prompt += "\n\nداده‌های تاریخی برای مقایسه:\n" + historicalData
	}

	fullText, err := c.ask(prompt)
	if err != nil {
		return nil, err
	}

	report := &WeeklyReport{
		Insights:                "اطلاعات کافی برای تحلیل الگوها وجود ندارد.",
		OptimizationSuggestions: "اطلاعات کافی برای ارائه پیشنهادهای بهینه‌سازی وجود ندارد.",
	}
	sections := splitSections(fullText)
	if len(sections) >= 3 {
		report.Summary = sections[0]
		report.Insights = sections[1]
		report.OptimizationSuggestions = sections[2]
	} else {
		report.Summary = fullText
	}
	return report, nil
}

// ComparePerformance compares current study data with historical data,
// with optional user goals for context.
func (c *Client) ComparePerformance(currentData, historicalData, goals string) (string, error) {
	prompt := "به عنوان یک مشاور تحصیلی هوش مصنوعی عمل کن. " +
		"لطفاً داده‌های مطالعه فعلی را با داده‌های تاریخی مقایسه کن و یک تحلیل جامع ارائه بده که شامل: " +
		"1) خلاصه مقایسه، 2) تفاوت‌های کلیدی شناسایی شده و نقاط قوت یا ضعف، و " +
		"3) پیشنهادهایی برای بهینه‌سازی راهبردهای یادگیری باشد. تمام پاسخ را به زبان فارسی بنویس.\n\n" +
		"داده‌های مطالعه فعلی:\n" + currentData +
		"\n\nداده‌های مطالعه قبلی:\n" + historicalData
	if goals != "" {
		prompt += "\n\nاهداف کاربر:\n" + goals
	}
	return c.ask(prompt)
}

// chatSystemPrompt defines the رمپ‌آپ academic chat persona.
const chatSystemPrompt = "تو «ربات رمپ‌آپ»، یک دستیار هوش مصنوعی دوستانه برای دانش‌آموزان هستی. " +
	"هدف اصلی تو کمک به سوالات درسی و مرتبط با مطالعه است.\n\n" +
	"اگر سوال درسی یا مرتبط با مطالعه است، پاسخی واضح، کوتاه و مفید به زبان فارسی ارائه بده.\n\n" +
	"اگر سوال غیردرسی است، به طور مودبانه به سوال کاربر اشاره کن و سعی کن به آرامی مکالمه را " +
	"به سمت زمینه درسی هدایت کنی. مودب و دلگرم‌کننده باش و پاسخ‌ها را کوتاه نگه دار."

// Chat answers a free-form academic question.
func (c *Client) Chat(question string) (string, error) {
	return c.generate([]apiContent{
		{Role: "system", Parts: []apiPart{{Text: chatSystemPrompt}}},
		{Role: "user", Parts: []apiPart{{Text: question}}},
	})
}

// splitSections breaks a response on blank lines.
func splitSections(text string) []string {
	var sections []string
	for _, s := range strings.Split(text, "\n\n") {
		if strings.TrimSpace(s) != "" {
			sections = append(sections, strings.TrimSpace(s))
		}
	}
	return sections
}
