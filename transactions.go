package main

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/bsm/redislock"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/colmadosys/colmado_backend/config"
	"github.com/colmadosys/colmado_backend/models"
	"github.com/colmadosys/colmado_backend/realtime"
	"github.com/colmadosys/colmado_backend/utils"
	"github.com/colmadosys/colmado_backend/workflow"
)

// obtainPostingLock is a best-effort optimization: it keeps concurrent
// submissions from piling up on the MySQL advisory lock. Reliability does
// not depend on Redis; the workflow serializes safely on its own.
func obtainPostingLock(c *gin.Context) *redislock.Lock {
	logger := config.GetLogger()
	redisLock := config.GetRedisLock()
	if redisLock == nil {
		logger.WithFields(logrus.Fields{
			"field": "obtainPostingLock",
			"path":  c.Request.URL.Path,
		}).Warn("redis lock not ready; proceeding without redis lock")
		return nil
	}

	lock, err := redisLock.Obtain(c.Request.Context(), "lock:posting", 30*time.Second, nil)
	if err == redislock.ErrNotObtained {
		logger.WithFields(logrus.Fields{
			"field": "obtainPostingLock",
			"path":  c.Request.URL.Path,
		}).Warn("could not obtain redis lock; proceeding without redis lock")
		return nil
	} else if err != nil {
		logger.WithFields(logrus.Fields{
			"field": "obtainPostingLock",
			"path":  c.Request.URL.Path,
		}).Warn("error obtaining redis lock; proceeding without redis lock: " + err.Error())
		return nil
	}
	return lock
}

func releasePostingLock(c *gin.Context, lock *redislock.Lock) {
	if lock == nil {
		return
	}
	if err := lock.Release(c.Request.Context()); err != nil {
		config.GetLogger().WithFields(logrus.Fields{
			"field": "releasePostingLock",
			"path":  c.Request.URL.Path,
		}).Warn("failed to release redis lock: " + err.Error())
	}
}

func writeBindError(c *gin.Context, err error) {
	if fields := utils.FormatValidationErrors(err); len(fields) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "fields": fields})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
}

// writePostingError maps the workflow's typed failures to HTTP statuses.
// Validation problems are the caller's fault; stock shortfalls are a state
// conflict; commit failures are retryable server errors.
func writePostingError(c *gin.Context, err error) {
	var ve *utils.ValidationError
	var ise *utils.InsufficientStockError
	var ce *utils.CommitError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Error()})
	case errors.As(err, &ise):
		c.JSON(http.StatusConflict, gin.H{"error": ise.Error()})
	case errors.Is(err, utils.ErrProductNotFound), errors.Is(err, utils.ErrPurchaseNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &ce):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "transaction could not be committed; retry"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func submitPurchaseHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := config.GetLogger()

		var input models.NewPurchase
		if err := c.ShouldBindJSON(&input); err != nil {
			writeBindError(c, err)
			return
		}

		lock := obtainPostingLock(c)
		defer releasePostingLock(c, lock)

		purchase, err := workflow.PostPurchase(c.Request.Context(), config.GetDB(), logger, &input)
		if err != nil {
			writePostingError(c, err)
			return
		}

		rdb := config.GetRedisDB()
		realtime.PublishChange(c.Request.Context(), rdb, models.CollectionPurchases, purchase.ID)
		realtime.PublishChange(c.Request.Context(), rdb, models.CollectionProducts, 0)
		invalidateSummaryCache()

		c.JSON(http.StatusCreated, purchase)
	}
}

func submitSaleHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := config.GetLogger()

		var input models.NewSale
		if err := c.ShouldBindJSON(&input); err != nil {
			writeBindError(c, err)
			return
		}

		lock := obtainPostingLock(c)
		defer releasePostingLock(c, lock)

		sale, err := workflow.PostSale(c.Request.Context(), config.GetDB(), logger, &input)
		if err != nil {
			writePostingError(c, err)
			return
		}

		rdb := config.GetRedisDB()
		realtime.PublishChange(c.Request.Context(), rdb, models.CollectionSales, sale.ID)
		realtime.PublishChange(c.Request.Context(), rdb, models.CollectionProducts, 0)
		invalidateSummaryCache()

		c.JSON(http.StatusCreated, sale)
	}
}

func submitReturnHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := config.GetLogger()

		var input models.NewReturn
		if err := c.ShouldBindJSON(&input); err != nil {
			writeBindError(c, err)
			return
		}

		lock := obtainPostingLock(c)
		defer releasePostingLock(c, lock)

		ret, err := workflow.PostReturn(c.Request.Context(), config.GetDB(), logger, &input)
		if err != nil {
			writePostingError(c, err)
			return
		}

		rdb := config.GetRedisDB()
		realtime.PublishChange(c.Request.Context(), rdb, models.CollectionReturns, ret.ID)
		realtime.PublishChange(c.Request.Context(), rdb, models.CollectionProducts, 0)
		invalidateSummaryCache()

		c.JSON(http.StatusCreated, ret)
	}
}

// changeFeedHandler bridges the Redis change feed to server-sent events.
// One subscription per request; closing the request tears it down.
func changeFeedHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		collection := models.Collection(c.Param("collection"))
		switch collection {
		case models.CollectionProducts, models.CollectionPurchases,
			models.CollectionSales, models.CollectionReturns:
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unknown collection %q", c.Param("collection"))})
			return
		}

		sub, err := realtime.Subscribe(c.Request.Context(), config.GetRedisDB(), collection)
		if err != nil {
			config.LogError(config.GetLogger(), "transactions.go", "changeFeedHandler", "subscribe", collection, err)
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "change feed unavailable"})
			return
		}
		defer sub.Unsubscribe()

		c.Header("Content-Type", "text/event-stream")
		c.Header("Cache-Control", "no-cache")
		c.Header("Connection", "keep-alive")

		c.Stream(func(w io.Writer) bool {
			select {
			case event, ok := <-sub.C():
				if !ok {
					return false
				}
				c.SSEvent("change", event)
				return true
			case <-c.Request.Context().Done():
				return false
			}
		})
	}
}
