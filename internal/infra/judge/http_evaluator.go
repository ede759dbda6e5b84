package judge

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"challenge-session-service/internal/domain"
)

// HTTPEvaluator submits solutions to an external execution engine over
// HTTP. Judge-side failures come back as domain evaluation errors, which
// the coordinator turns into userCodeFail events.
type HTTPEvaluator struct {
	url    string
	client *http.Client
}

func NewHTTPEvaluator(url string, timeout time.Duration) *HTTPEvaluator {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPEvaluator{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

type evaluateRequest struct {
	ProblemID string `json:"problemId"`
	Code      string `json:"code"`
	Language  string `json:"language"`
}

func (e *HTTPEvaluator) Evaluate(ctx context.Context, problemID, code, language string) (domain.Verdict, error) {
	body, err := json.Marshal(evaluateRequest{
		ProblemID: problemID,
		Code:      code,
		Language:  language,
	})
	if err != nil {
		return domain.Verdict{}, fmt.Errorf("marshal evaluate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.url, bytes.NewReader(body))
	if err != nil {
		return domain.Verdict{}, fmt.Errorf("build evaluate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return domain.Verdict{}, domain.ErrEvaluationTimeout
		}
		return domain.Verdict{}, fmt.Errorf("%w: %v", domain.ErrEvaluationRuntime, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.Verdict{}, fmt.Errorf("%w: judge returned status %d", domain.ErrEvaluationRuntime, resp.StatusCode)
	}

	var verdict domain.Verdict
	if err := json.NewDecoder(resp.Body).Decode(&verdict); err != nil {
		return domain.Verdict{}, fmt.Errorf("%w: decode verdict: %v", domain.ErrEvaluationRuntime, err)
	}
	return verdict, nil
}
