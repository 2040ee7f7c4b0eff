// Package https_server 负责创建 Gin 引擎实例并配置中间件和路由
package https_server

import (
	"flatshare_server/internal/config"                    // 配置管理
	"flatshare_server/internal/handler"                   // Handler 聚合对象
	"flatshare_server/internal/infrastructure/logger"     // 自定义日志中间件
	"flatshare_server/internal/infrastructure/middleware" // TLS 重定向
	"flatshare_server/internal/router"                    // 路由注册
	"flatshare_server/pkg/util/jwt"

	"github.com/gin-contrib/cors" // CORS 跨域中间件
	"github.com/gin-gonic/gin"    // Gin Web 框架
)

// Init 创建 Gin 引擎并返回
// 配置顺序：
//  1. 创建 Gin 引擎（空白，不含默认中间件）
//  2. 注册日志和恢复中间件
//  3. 配置 CORS 跨域规则
//  4. 按配置启用 TLS 重定向
//  5. 注册业务路由
func Init(conf config.MainConfig, handlers *handler.Handlers, tokens *jwt.Manager) *gin.Engine {
	if conf.Mode != "dev" && conf.Mode != gin.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()

	engine.Use(logger.GinLogger())
	engine.Use(logger.GinRecovery(true))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"*"} // 允许所有来源（生产环境应指定具体域名）
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	engine.Use(cors.New(corsConfig))

	// 由 Nginx 处理 SSL 时关闭
	if conf.ForceTLS {
		engine.Use(middleware.TlsHandler(conf.Host, conf.Port))
	}

	rt := router.NewRouter(handlers, tokens)
	rt.RegisterRoutes(engine)

	return engine
}
