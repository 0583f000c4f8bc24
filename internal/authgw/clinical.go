package authgw

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// clinicalErrMsg は臨床サービスへの転送失敗時のドメインメッセージ。
const clinicalErrMsg = "臨床マイクロサービスとの通信に失敗しました"

// setupClinicalRoutes は臨床ゲートウェイのルートを設定する。
// 各ルートは下流リソースへの1:1パススルーで、ボディの検証や変換は行わない。
func (s *Server) setupClinicalRoutes(g *gin.RouterGroup) {
	// 患者
	g.GET("/patients", s.handleClinical(http.MethodGet, "/patients"))
	g.GET("/patients/:id", s.handleClinicalWithParam(http.MethodGet, "/patients/", "id"))
	g.PATCH("/patients/:id/status", s.handleClinicalWithParam(http.MethodPatch, "/patients/", "id", "/status"))
	g.POST("/patient", s.handleClinical(http.MethodPost, "/patients"))

	// 腫瘍タイプ
	g.GET("/tumortypes", s.handleClinical(http.MethodGet, "/tumortypes"))
	g.POST("/tumortype", s.handleClinical(http.MethodPost, "/tumortypes"))

	// 臨床記録
	g.GET("/clinicalrecords", s.handleClinical(http.MethodGet, "/clinicalrecords"))
	g.POST("/clinicalrecord", s.handleClinical(http.MethodPost, "/clinicalrecords"))
}

// handleClinical は固定パスへの臨床サービス転送ハンドラを返す。
func (s *Server) handleClinical(method, path string) gin.HandlerFunc {
	return func(c *gin.Context) {
		s.doForward(c, s.clinical, method, path, clinicalErrMsg)
	}
}

// handleClinicalWithParam はパス変数を含む臨床サービス転送ハンドラを返す。
// パス変数はそのまま埋め込む（追加のエンコードは行わない）。
func (s *Server) handleClinicalWithParam(method, prefix, param string, suffix ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := prefix + c.Param(param)
		for _, sfx := range suffix {
			path += sfx
		}
		s.doForward(c, s.clinical, method, path, clinicalErrMsg)
	}
}
