// internal/gateway/tester.go
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"clawdeck/internal/channels"
)

// TestChannel asks the running gateway to perform one round trip on the
// channel (send a test message through the platform API). The outcome is
// reported verbatim; nothing is retried or interpreted here.
func (m *Manager) TestChannel(ctx context.Context, channelType string, config map[string]string) channels.TestResult {
	status := m.Status()
	if !status.Running {
		return channels.TestResult{
			Channel: channelType,
			Error:   "gateway is not running",
		}
	}

	body, err := json.Marshal(map[string]interface{}{"config": config})
	if err != nil {
		return channels.TestResult{Channel: channelType, Error: err.Error()}
	}

	reqCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	url := fmt.Sprintf("http://127.0.0.1:%d/v1/channels/%s/test", status.Port, channelType)
	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return channels.TestResult{Channel: channelType, Error: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return channels.TestResult{Channel: channelType, Error: err.Error()}
	}
	defer resp.Body.Close()

	var result channels.TestResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return channels.TestResult{
			Channel: channelType,
			Error:   fmt.Sprintf("gateway returned %s", resp.Status),
		}
	}
	result.Channel = channelType
	return result
}
