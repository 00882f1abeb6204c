// controller/bestseller_controller.go
package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	bookclub_errors "github.com/dev-mohitbeniwal/bookclub/errors"
	logger "github.com/dev-mohitbeniwal/bookclub/logging"
	"github.com/dev-mohitbeniwal/bookclub/service"
	"github.com/dev-mohitbeniwal/bookclub/util"
)

type BestsellerController struct {
	bestsellerService service.IBestsellerService
}

func NewBestsellerController(bestsellerService service.IBestsellerService) *BestsellerController {
	return &BestsellerController{
		bestsellerService: bestsellerService,
	}
}

// RegisterRoutes registers the API routes
func (bc *BestsellerController) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/bestsellers/:listName", bc.GetList)
	r.GET("/books/:isbn", bc.GetBookByISBN)
}

// GetList endpoint. The cached payload is written as stored.
func (bc *BestsellerController) GetList(c *gin.Context) {
	listName := c.Param("listName")

	payload, err := bc.bestsellerService.GetList(c.Request.Context(), listName)
	if err != nil {
		switch {
		case errors.Is(err, bookclub_errors.ErrInvalidListName):
			util.RespondWithError(c, http.StatusNotFound, "Bestseller list not found", err)
		case errors.Is(err, bookclub_errors.ErrMalformedResponse):
			util.RespondWithError(c, http.StatusInternalServerError, "Unexpected response from bestseller service", err)
		default:
			util.RespondWithError(c, http.StatusInternalServerError, "Failed to fetch bestseller list", err)
		}
		return
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", payload)
}

// GetBookByISBN endpoint
func (bc *BestsellerController) GetBookByISBN(c *gin.Context) {
	isbn := c.Param("isbn")

	payload, err := bc.bestsellerService.GetBookByISBN(c.Request.Context(), isbn)
	if err != nil {
		if errors.Is(err, bookclub_errors.ErrBookNotFound) {
			logger.Debug("ISBN not on any bestseller list", zap.String("isbn", isbn))
			c.JSON(http.StatusNotFound, gin.H{
				"message": "Book not found",
				"details": "No bestseller list currently contains ISBN " + isbn,
			})
			return
		}
		util.RespondWithError(c, http.StatusInternalServerError, "Failed to fetch book", err)
		return
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", payload)
}
