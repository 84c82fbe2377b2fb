package handlers

import (
	"recipe-finder/internal/infrastructure/config"
	"recipe-finder/internal/pkg/common"

	"github.com/gin-gonic/gin"
)

// ConfigKey 設定在 gin.Context 中的鍵
const ConfigKey = "config"

// Config 從 context 取得設定，未注入時回傳 nil
func Config(c *gin.Context) *config.Config {
	v, ok := c.Get(ConfigKey)
	if !ok {
		return nil
	}
	cfg, _ := v.(*config.Config)
	return cfg
}

// RespondError 將錯誤轉為標準錯誤響應；debug 模式附上原始錯誤
func RespondError(c *gin.Context, err error) {
	debug := false
	if cfg := Config(c); cfg != nil {
		debug = cfg.App.Debug
	}
	_ = c.Error(err)
	status, resp := common.ToResponse(err, debug)
	c.AbortWithStatusJSON(status, resp)
}
