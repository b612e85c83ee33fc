package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"storefront-service/config"
	"storefront-service/internal/api"
	"storefront-service/internal/catalog"
	"storefront-service/internal/util"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"
)

var catalogAPI *catalog.API

func init() {
	cfg := config.Load()
	if err := util.InitLogger(cfg.Server.Env); err != nil {
		panic(err)
	}

	// Lambda bills by the millisecond, so no simulated latency here
	catalogAPI = catalog.NewAPI(catalog.Default(), catalog.Latency{}, cfg.Catalog.PageSize, cfg.Catalog.SearchLimit)
}

func handler(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	logger := util.GetLogger()
	logger.Debug("Received request", zap.String("path", request.Path))

	if id := request.PathParameters["id"]; id != "" {
		product, err := catalogAPI.GetProduct(ctx, id)
		if err != nil {
			return respond(http.StatusInternalServerError, map[string]string{"message": "Failed to retrieve product"})
		}
		if product == nil {
			return respond(http.StatusNotFound, map[string]string{"message": "Product not found"})
		}
		return respond(http.StatusOK, product)
	}

	params, err := api.ParseProductQuery(queryValues(request))
	if err != nil {
		return respond(http.StatusBadRequest, map[string]string{"message": err.Error()})
	}

	page, err := catalogAPI.GetProducts(ctx, params)
	if err != nil {
		logger.Error("Error listing products", zap.Error(err))
		return respond(http.StatusInternalServerError, map[string]string{"message": "Failed to retrieve products"})
	}
	return respond(http.StatusOK, page)
}

func queryValues(request events.APIGatewayProxyRequest) url.Values {
	values := url.Values{}
	for k, vs := range request.MultiValueQueryStringParameters {
		values[k] = append(values[k], vs...)
	}
	for k, v := range request.QueryStringParameters {
		if _, ok := values[k]; !ok {
			values.Set(k, v)
		}
	}
	return values
}

func respond(status int, body interface{}) (events.APIGatewayProxyResponse, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusInternalServerError,
			Headers:    map[string]string{"Content-Type": "application/json"},
			Body:       `{"message": "Failed to format response"}`,
		}, nil
	}

	headers := map[string]string{
		"Content-Type":                 "application/json",
		"Cache-Control":                "public, max-age=300, must-revalidate",
		"Access-Control-Allow-Origin":  "*",
		"Access-Control-Allow-Methods": "GET",
		"Access-Control-Allow-Headers": "Content-Type",
	}
	return events.APIGatewayProxyResponse{
		StatusCode: status,
		Headers:    headers,
		Body:       string(data),
	}, nil
}

func main() {
	lambda.Start(handler)
}
