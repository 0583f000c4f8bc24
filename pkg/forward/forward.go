package forward

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// requestTimeout は下流呼び出しのタイムアウト。
// 下流が応答しない場合にリクエスト処理が無期限に塞がるのを防ぐ。
// リトライは行わない。
const requestTimeout = 10 * time.Second

// CallError は下流サービス呼び出しの失敗を表す。
// 接続エラー・タイムアウト・非2xx応答はすべてこのエラーに畳み込まれ、
// 元の失敗メッセージを保持する。
type CallError struct {
	// Message は失敗の原因メッセージ。
	Message string
}

// Error はエラーメッセージを返す。
func (e *CallError) Error() string {
	return e.Message
}

// Client は下流マイクロサービスへの転送用HTTPクライアント。
type Client struct {
	// httpClient は内部で使用するHTTPクライアント。
	httpClient *http.Client
	// baseURL は接続先サービスのベースURL。
	baseURL string
}

// New は指定したベースURLに紐付いた転送クライアントを生成する。
func New(baseURL string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
		baseURL: baseURL,
	}
}

// Get は指定パスにGETリクエストを送信し、レスポンスボディを返す。
func (c *Client) Get(ctx context.Context, path string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, path, nil)
}

// Post は指定パスにPOSTリクエストを送信し、レスポンスボディを返す。
// bodyがnilの場合はボディなしで送信する。
func (c *Client) Post(ctx context.Context, path string, body []byte) ([]byte, error) {
	return c.do(ctx, http.MethodPost, path, body)
}

// Put は指定パスにPUTリクエストを送信し、レスポンスボディを返す。
func (c *Client) Put(ctx context.Context, path string, body []byte) ([]byte, error) {
	return c.do(ctx, http.MethodPut, path, body)
}

// Patch は指定パスにPATCHリクエストを送信し、レスポンスボディを返す。
// bodyがnilの場合はボディなしで送信する（ステータス切り替え等に使用）。
func (c *Client) Patch(ctx context.Context, path string, body []byte) ([]byte, error) {
	return c.do(ctx, http.MethodPatch, path, body)
}

// Delete は指定パスにDELETEリクエストを送信し、レスポンスボディを返す。
func (c *Client) Delete(ctx context.Context, path string) ([]byte, error) {
	return c.do(ctx, http.MethodDelete, path, nil)
}

// do は下流への転送リクエストを実行する共通処理。
// 呼び出しは同期的で、下流の応答かタイムアウトまでブロックする。
func (c *Client) do(ctx context.Context, method, path string, body []byte) ([]byte, error) {
	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}

	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, &CallError{Message: fmt.Sprintf("転送リクエストの作成に失敗: %v", err)}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &CallError{Message: fmt.Sprintf("下流サービスへの接続に失敗: %v", err)}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &CallError{Message: fmt.Sprintf("レスポンスボディの読み取りに失敗: %v", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &CallError{Message: fmt.Sprintf("下流サービスがエラー応答: status=%d, body=%s", resp.StatusCode, string(respBody))}
	}
	return respBody, nil
}
