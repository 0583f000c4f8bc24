package authgw

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// genomicErrMsg はゲノムサービスへの転送失敗時のドメインメッセージ。
const genomicErrMsg = "ゲノムマイクロサービスとの通信に失敗しました"

// setupGenomicRoutes はゲノムゲートウェイのルートを設定する。
// 下流のリソースパスは末尾スラッシュを要求するため、転送先パスにも付与する。
func (s *Server) setupGenomicRoutes(g *gin.RouterGroup) {
	// 遺伝子
	g.POST("/gene", s.handleGenomic(http.MethodPost, "/gene/"))
	g.GET("/gene", s.handleGenomic(http.MethodGet, "/gene/"))
	g.GET("/gene/:id", s.handleGenomicWithParam(http.MethodGet, "/gene/", "id"))
	g.PATCH("/gene/:id", s.handleGenomicWithParam(http.MethodPatch, "/gene/", "id"))
	g.DELETE("/gene/:id", s.handleGenomicWithParam(http.MethodDelete, "/gene/", "id"))

	// 遺伝子バリアント
	g.POST("/genetic-variants", s.handleGenomic(http.MethodPost, "/genetic-variants/"))
	g.GET("/genetic-variants", s.handleGenomic(http.MethodGet, "/genetic-variants/"))
	g.GET("/genetic-variants/:uuid", s.handleGenomicWithParam(http.MethodGet, "/genetic-variants/", "uuid"))
	g.PATCH("/genetic-variants/:uuid", s.handleGenomicWithParam(http.MethodPatch, "/genetic-variants/", "uuid"))
	g.DELETE("/genetic-variants/:uuid", s.handleGenomicWithParam(http.MethodDelete, "/genetic-variants/", "uuid"))

	// 患者と患者-バリアント割り当て
	g.POST("/patients", s.handleGenomic(http.MethodPost, "/patients/"))
	g.POST("/assign-genetic-variant", s.handleGenomic(http.MethodPost, "/assign-genetic-variant/"))
	g.GET("/patient-variant-reports", s.handleGenomic(http.MethodGet, "/patient-variant-reports/"))
}

// handleGenomic は固定パスへのゲノムサービス転送ハンドラを返す。
func (s *Server) handleGenomic(method, path string) gin.HandlerFunc {
	return func(c *gin.Context) {
		s.doForward(c, s.genomic, method, path, genomicErrMsg)
	}
}

// handleGenomicWithParam はパス変数を含むゲノムサービス転送ハンドラを返す。
// 下流パスはパス変数の後にも末尾スラッシュを付ける。
func (s *Server) handleGenomicWithParam(method, prefix, param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := prefix + c.Param(param) + "/"
		s.doForward(c, s.genomic, method, path, genomicErrMsg)
	}
}
