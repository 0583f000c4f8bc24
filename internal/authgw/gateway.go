package authgw

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nao1215/genogate/pkg/forward"
)

// doForward は下流マイクロサービスへの転送を実行し、応答を書き込む共通処理。
// 成功時は下流のボディを無加工で200・JSONとして返す。
// 失敗時はerrMsgをドメインメッセージとした502エンベロープを返す
// （生の例外形式をクライアントに出さない）。
func (s *Server) doForward(c *gin.Context, client *forward.Client, method, path, errMsg string) {
	// クエリ文字列はそのまま下流に引き継ぐ
	if q := c.Request.URL.RawQuery; q != "" {
		path += "?" + q
	}

	var body []byte
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		raw, err := c.GetRawData()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "リクエストボディの読み取りに失敗しました"})
			return
		}
		if len(raw) > 0 {
			body = raw
		}
	}

	ctx := c.Request.Context()
	var respBody []byte
	var err error
	switch method {
	case http.MethodGet:
		respBody, err = client.Get(ctx, path)
	case http.MethodPost:
		respBody, err = client.Post(ctx, path, body)
	case http.MethodPut:
		respBody, err = client.Put(ctx, path, body)
	case http.MethodPatch:
		respBody, err = client.Patch(ctx, path, body)
	case http.MethodDelete:
		respBody, err = client.Delete(ctx, path)
	default:
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "サポートされないメソッドです"})
		return
	}
	if err != nil {
		log.Printf("下流転送エラー: method=%s path=%s error=%v", method, path, err)
		c.JSON(http.StatusBadGateway, gin.H{
			"error":   errMsg,
			"message": err.Error(),
			"status":  http.StatusBadGateway,
		})
		return
	}

	c.Data(http.StatusOK, "application/json", respBody)
}
