package main

import (
	"context"
	"log"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"go.uber.org/zap"

	"market_sync/internal/app/config"
	"market_sync/internal/app/di"
	"market_sync/internal/app/router"
	"market_sync/internal/platform/logger"
)

type lambdaHandler struct {
	ginLambda *ginadapter.GinLambda
	log       *zap.SugaredLogger
}

func (h lambdaHandler) Handler(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	h.log.Infow("lambda request", "method", req.HTTPMethod, "path", req.Path)
	return h.ginLambda.ProxyWithContext(ctx, req)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	zl := logger.New(cfg.Env)
	defer func() { _ = zl.Sync() }()

	app, err := di.Build(context.Background(), cfg, zl, di.Options{})
	if err != nil {
		zl.Fatalw("failed to build application", "error", err)
	}
	defer app.Close()

	h := lambdaHandler{
		ginLambda: ginadapter.New(router.NewRouter(router.DepsFromApp(app))),
		log:       zl,
	}
	lambda.Start(h.Handler)
}
