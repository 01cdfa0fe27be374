package main

import (
	"context"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	chiadapter "github.com/awslabs/aws-lambda-go-api-proxy/chi"

	_ "github.com/saulo-duarte/cyberaware-lambda/docs"
	"github.com/saulo-duarte/cyberaware-lambda/internal/container"
)

var chiLambda *chiadapter.ChiLambda

func init() {
	chiLambda = chiadapter.New(container.New().Router)
}

func handler(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	return chiLambda.ProxyWithContext(ctx, req)
}

func main() {
	lambda.Start(handler)
}
