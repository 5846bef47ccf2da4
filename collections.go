package main

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/colmadosys/colmado_backend/config"
	"github.com/colmadosys/colmado_backend/models"
	"github.com/colmadosys/colmado_backend/utils"
)

func pathId(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}

func listProductsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		products, err := models.GetProducts(c.Request.Context())
		if err != nil {
			config.LogError(config.GetLogger(), "collections.go", "listProductsHandler", "list", nil, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list products"})
			return
		}
		c.JSON(http.StatusOK, products)
	}
}

func getProductHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		product, err := models.GetProduct(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, utils.ErrProductNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
				return
			}
			config.LogError(config.GetLogger(), "collections.go", "getProductHandler", "get", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load product"})
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

func listPurchasesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		purchases, err := models.GetPurchases(c.Request.Context())
		if err != nil {
			config.LogError(config.GetLogger(), "collections.go", "listPurchasesHandler", "list", nil, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list purchases"})
			return
		}
		c.JSON(http.StatusOK, purchases)
	}
}

func getPurchaseHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathId(c)
		if !ok {
			return
		}
		purchase, err := models.GetPurchase(c.Request.Context(), id)
		if err != nil {
			if errors.Is(err, utils.ErrPurchaseNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "purchase not found"})
				return
			}
			config.LogError(config.GetLogger(), "collections.go", "getPurchaseHandler", "get", id, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load purchase"})
			return
		}
		c.JSON(http.StatusOK, purchase)
	}
}

func listSalesHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		sales, err := models.GetSales(c.Request.Context())
		if err != nil {
			config.LogError(config.GetLogger(), "collections.go", "listSalesHandler", "list", nil, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list sales"})
			return
		}
		c.JSON(http.StatusOK, sales)
	}
}

func listReturnsHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		returns, err := models.GetReturns(c.Request.Context())
		if err != nil {
			config.LogError(config.GetLogger(), "collections.go", "listReturnsHandler", "list", nil, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not list returns"})
			return
		}
		c.JSON(http.StatusOK, returns)
	}
}
