package httpresp

import "github.com/gin-gonic/gin"

type ListResponse[T any] struct {
	Data  []T `json:"data"`
	Total int `json:"total"`
}

// Result carries a payload plus any non-fatal collaborator warnings
// (notification or refund signaling failures never fail the request).
type Result struct {
	Data     any      `json:"data"`
	Warnings []string `json:"warnings,omitempty"`
}

func OK(c *gin.Context, data any) {
	c.JSON(200, data)
}

func Created(c *gin.Context, data any) {
	c.JSON(201, data)
}

func OKWithWarnings(c *gin.Context, data any, warnings []string) {
	if len(warnings) == 0 {
		c.JSON(200, data)
		return
	}
	c.JSON(200, Result{Data: data, Warnings: warnings})
}

func List[T any](c *gin.Context, data []T) {
	c.JSON(200, ListResponse[T]{
		Data:  data,
		Total: len(data),
	})
}
