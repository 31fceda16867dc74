package api

import (
	"net/http"

	restfulspec "github.com/emicklei/go-restful-openapi/v2"
	"github.com/emicklei/go-restful/v3"
	"github.com/go-openapi/spec"
	"github.com/povarna/generative-ai-agents/conversation-analyzer/internal/api/middleware"
	"github.com/povarna/generative-ai-agents/conversation-analyzer/internal/models"
)

const OpenAPIPath = "/apidocs.json"

func RegisterRoutes(container *restful.Container, handler *Handler) {
	ws := new(restful.WebService)

	ws.
		Path("/api/v1").
		Consumes(restful.MIME_JSON).
		Produces(restful.MIME_JSON)

	ws.
		Route(ws.GET("health").
			To(handler.Health).
			Doc("Health check").
			Metadata(restfulspec.KeyOpenAPITags, []string{"health"}).
			Writes(HealthResponse{}).
			Returns(200, "OK", HealthResponse{}))

	ws.
		Route(ws.POST("/conversations").
			To(handler.UploadConversation).
			Doc("Upload a conversation transcript").
			Metadata(restfulspec.KeyOpenAPITags, []string{"conversations"}).
			Reads([]models.UploadMessage{}).
			Writes(UploadResponse{}).
			Returns(201, "Created", UploadResponse{}).
			Returns(400, "Bad Request", middleware.ErrorResponse{}))

	ws.
		Route(ws.DELETE("/conversations/{conversation_id}").
			To(handler.DeleteConversation).
			Doc("Delete a conversation and its report").
			Metadata(restfulspec.KeyOpenAPITags, []string{"conversations"}).
			Param(ws.PathParameter("conversation_id", "Conversation identifier").DataType("string")).
			Returns(204, "No Content", nil).
			Returns(404, "Conversation Not Found", middleware.ErrorResponse{}))

	ws.
		Route(ws.POST("/analyse/{conversation_id}").
			To(handler.TriggerAnalysis).
			Doc("Analyze a conversation, replacing any previous report").
			Consumes(restful.MIME_JSON, "*/*").
			Metadata(restfulspec.KeyOpenAPITags, []string{"analysis"}).
			Param(ws.PathParameter("conversation_id", "Conversation identifier").DataType("string")).
			Writes(AnalyseResponse{}).
			Returns(201, "Report Created", AnalyseResponse{}).
			Returns(200, "Report Replaced", AnalyseResponse{}).
			Returns(404, "Conversation Not Found", middleware.ErrorResponse{}).
			Returns(422, "Empty Transcript", middleware.ErrorResponse{}).
			Returns(503, "Store Conflict", middleware.ErrorResponse{}).
			Returns(500, "Internal Server Error", middleware.ErrorResponse{}))

	ws.
		Route(ws.GET("/reports").
			To(handler.ListReports).
			Doc("List reports, newest first").
			Metadata(restfulspec.KeyOpenAPITags, []string{"reports"}).
			Writes([]models.Report{}).
			Returns(200, "OK", []models.Report{}))

	ws.
		Route(ws.GET("/reports/export.xlsx").
			To(handler.ExportReports).
			Doc("Export all reports as a spreadsheet").
			Metadata(restfulspec.KeyOpenAPITags, []string{"reports"}).
			Produces(xlsxContentType).
			Returns(200, "OK", nil))

	ws.
		Route(ws.GET("/reports/{conversation_id}").
			To(handler.GetReport).
			Doc("Get the report of a conversation").
			Metadata(restfulspec.KeyOpenAPITags, []string{"reports"}).
			Param(ws.PathParameter("conversation_id", "Conversation identifier").DataType("string")).
			Writes(models.Report{}).
			Returns(200, "OK", models.Report{}).
			Returns(404, "Report Not Found", middleware.ErrorResponse{}))

	container.Add(ws)
}

func EnrichSwaggerObject(swo *spec.Swagger) {
	swo.Info = &spec.Info{
		InfoProps: spec.InfoProps{
			Title:       "Conversation Analyzer API",
			Description: "Quality analysis reports for chat conversations",
			Version:     "1.0.0",
		},
	}
	swo.Tags = []spec.Tag{
		{TagProps: spec.TagProps{Name: "health", Description: "Health checks"}},
		{TagProps: spec.TagProps{Name: "conversations", Description: "Conversation upload and removal"}},
		{TagProps: spec.TagProps{Name: "analysis", Description: "Report computation"}},
		{TagProps: spec.TagProps{Name: "reports", Description: "Stored reports"}},
	}
}

// NewContainer assembles filters, routes, the OpenAPI document and, when
// given, the metrics endpoint.
func NewContainer(handler *Handler, metricsHandler http.Handler) *restful.Container {
	container := restful.NewContainer()
	container.Filter(middleware.Logger)
	container.Filter(middleware.RecoverPanic)

	RegisterRoutes(container, handler)

	container.Add(restfulspec.NewOpenAPIService(restfulspec.Config{
		WebServices:                   container.RegisteredWebServices(),
		APIPath:                       OpenAPIPath,
		PostBuildSwaggerObjectHandler: EnrichSwaggerObject,
	}))

	if metricsHandler != nil {
		container.Handle("/metrics", metricsHandler)
	}
	return container
}
