package http

import (
	"context"
	"errors"
	"fmt"
	gohttp "net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	container "github.com/thehyperflames/dicontainer-go"

	"github.com/hxuan190/curve-engine/internal/config"
	"github.com/hxuan190/curve-engine/internal/http/httputil"
	"github.com/hxuan190/curve-engine/internal/http/middlewares"
	"github.com/hxuan190/curve-engine/internal/services/quoter"
)

const (
	API_VERSION  = "v1"
	HTTP_SERVICE = "http-service"

	limiterEvictInterval = time.Minute
	limiterMaxIdle       = 10 * time.Minute
)

type HTTPService struct {
	container.BaseDIInstance

	quoteSvc    *quoter.Service
	rateLimiter *middlewares.RateLimiter
	server      *gohttp.Server
	conf        *config.GeneralConfig
	stopEvict   chan struct{}

	handlers []httputil.IHttpHandler
}

func (svc *HTTPService) ID() string {
	return HTTP_SERVICE
}

func (svc *HTTPService) router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	corsConf := cors.DefaultConfig()
	corsConf.AllowAllOrigins = true
	r.Use(cors.New(corsConf))

	r.Use(middlewares.MetricsMiddleware())
	r.Use(svc.rateLimiter.RateLimitMiddleware())

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/health", func(c *gin.Context) {
		c.JSON(gohttp.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("api")
	pub := api.Group(API_VERSION)
	priv := api.Group(API_VERSION)

	admin := api.Group(fmt.Sprintf("%s/admin", API_VERSION))

	svc.setupHandlers(pub, priv, admin)
	return r
}

func (svc *HTTPService) Start() error {
	svc.server = &gohttp.Server{
		Addr:    svc.conf.HTTPHost + ":" + svc.conf.HTTPPort,
		Handler: svc.router(),
	}

	svc.stopEvict = make(chan struct{})
	go svc.evictLoop(svc.stopEvict)

	log.Info().Str("host", svc.conf.HTTPHost).Str("port", svc.conf.HTTPPort).Msg("http server started")

	if err := svc.server.ListenAndServe(); err != nil && err != gohttp.ErrServerClosed {
		return err
	}

	return nil
}

func (svc *HTTPService) evictLoop(stop <-chan struct{}) {
	ticker := time.NewTicker(limiterEvictInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if n := svc.rateLimiter.Evict(limiterMaxIdle); n > 0 {
				log.Debug().Int("evicted", n).Msg("rate limiter buckets evicted")
			}
		}
	}
}

func (svc *HTTPService) Configure(c container.IContainer) error {
	svc.conf = c.GetConfig(config.GENERAL_CONFIG_KEY).(*config.GeneralConfig)
	if svc.conf == nil {
		return errors.New("invalid server config")
	}
	if svc.conf.Env == config.ProdEnv {
		gin.SetMode(gin.ReleaseMode)
	}

	quoterConf := c.GetConfig(config.QUOTER_CONFIG_KEY).(*config.QuoterConfig)
	svc.setup(c.Instance(quoter.QUOTE_SERVICE).(*quoter.Service), quoterConf)
	return nil
}

func (svc *HTTPService) setup(quoteSvc *quoter.Service, quoterConf *config.QuoterConfig) {
	svc.quoteSvc = quoteSvc
	svc.rateLimiter = middlewares.NewRateLimiter(quoterConf.RateLimit, quoterConf.RateBurst)

	svc.handlers = []httputil.IHttpHandler{
		NewQuoteHandler(svc.quoteSvc),
		NewPriceHandler(svc.quoteSvc),
		NewGridHandler(svc.quoteSvc),
	}
}

func (svc *HTTPService) Stop() error {
	if svc.stopEvict != nil {
		close(svc.stopEvict)
		svc.stopEvict = nil
	}
	if svc.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := svc.server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("failed to stop http server")
		return err
	}
	log.Info().Msg("http server stopped gracefully")
	return nil
}

func (svc *HTTPService) setupHandlers(
	rootPub *gin.RouterGroup,
	rootPriv *gin.RouterGroup,
	rootAdmin *gin.RouterGroup,
) {
	for _, h := range svc.handlers {
		pub := rootPub.Group(h.Root())
		priv := rootPriv.Group(h.Root())
		admin := rootAdmin.Group(h.Root())
		h.SetRoutes(pub, priv, admin)
	}
}
