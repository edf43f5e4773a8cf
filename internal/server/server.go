package server

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/revenantonthemission/sogangcomputerclub.org/internal/models"
	"github.com/revenantonthemission/sogangcomputerclub.org/internal/service"
)

func Register(e *echo.Echo, svc *service.Service) {
	e.GET("/health", healthCheck(svc))

	e.POST("/memos/", createMemo(svc))
	e.GET("/memos/", listMemos(svc))
	e.GET("/memos/search/", searchMemos(svc))
	e.GET("/memos/:id", getMemo(svc))
	e.PUT("/memos/:id", updateMemo(svc))
	e.DELETE("/memos/:id", deleteMemo(svc))
}

type errorBody struct {
	Detail string `json:"detail"`
}

func fail(c echo.Context, code int, detail string) error {
	return c.JSON(code, errorBody{Detail: detail})
}

func parseID(c echo.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

func createMemo(svc *service.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		var in models.MemoCreate
		if err := c.Bind(&in); err != nil {
			return fail(c, http.StatusUnprocessableEntity, "invalid request body")
		}
		if err := in.Validate(); err != nil {
			return fail(c, http.StatusUnprocessableEntity, err.Error())
		}

		memo, err := svc.Create(c.Request().Context(), in)
		if err != nil {
			logrus.Error(errors.Wrap(err, "creating memo"))
			return fail(c, http.StatusInternalServerError, "failed to create memo")
		}
		return c.JSON(http.StatusCreated, memo)
	}
}

func listMemos(svc *service.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		skip, limit := 0, 100
		if raw := c.QueryParam("skip"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 0 {
				return fail(c, http.StatusUnprocessableEntity, "skip must be a non-negative integer")
			}
			skip = parsed
		}
		if raw := c.QueryParam("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed <= 0 {
				return fail(c, http.StatusUnprocessableEntity, "limit must be a positive integer")
			}
			limit = parsed
		}

		memos, err := svc.List(c.Request().Context(), skip, limit)
		if err != nil {
			logrus.Error(errors.Wrap(err, "listing memos"))
			return fail(c, http.StatusInternalServerError, "failed to list memos")
		}
		return c.JSON(http.StatusOK, memos)
	}
}

func getMemo(svc *service.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, ok := parseID(c)
		if !ok {
			return fail(c, http.StatusNotFound, "memo not found")
		}

		memo, err := svc.Get(c.Request().Context(), id)
		if errors.Is(err, models.ErrNotFound) {
			return fail(c, http.StatusNotFound, "memo not found")
		}
		if err != nil {
			logrus.Error(errors.Wrapf(err, "getting memo %d", id))
			return fail(c, http.StatusInternalServerError, "failed to get memo")
		}
		return c.JSON(http.StatusOK, memo)
	}
}

func updateMemo(svc *service.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, ok := parseID(c)
		if !ok {
			return fail(c, http.StatusNotFound, "memo not found")
		}

		var in models.MemoUpdate
		if err := c.Bind(&in); err != nil {
			return fail(c, http.StatusUnprocessableEntity, "invalid request body")
		}
		if err := in.Validate(); err != nil {
			return fail(c, http.StatusUnprocessableEntity, err.Error())
		}

		memo, err := svc.Update(c.Request().Context(), id, in)
		if errors.Is(err, models.ErrEmptyUpdate) {
			return fail(c, http.StatusBadRequest, "no fields to update")
		}
		if errors.Is(err, models.ErrNotFound) {
			return fail(c, http.StatusNotFound, "memo not found")
		}
		if err != nil {
			logrus.Error(errors.Wrapf(err, "updating memo %d", id))
			return fail(c, http.StatusInternalServerError, "failed to update memo")
		}
		return c.JSON(http.StatusOK, memo)
	}
}

func deleteMemo(svc *service.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, ok := parseID(c)
		if !ok {
			return fail(c, http.StatusNotFound, "memo not found")
		}

		err := svc.Delete(c.Request().Context(), id)
		if errors.Is(err, models.ErrNotFound) {
			return fail(c, http.StatusNotFound, "memo not found")
		}
		if err != nil {
			logrus.Error(errors.Wrapf(err, "deleting memo %d", id))
			return fail(c, http.StatusInternalServerError, "failed to delete memo")
		}
		return c.NoContent(http.StatusNoContent)
	}
}

func searchMemos(svc *service.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		query := c.QueryParam("q")

		memos, err := svc.Search(c.Request().Context(), query)
		if errors.Is(err, models.ErrEmptyQuery) {
			return fail(c, http.StatusUnprocessableEntity, "search query must not be empty")
		}
		if err != nil {
			logrus.Error(errors.Wrapf(err, "searching memos for %q", query))
			return fail(c, http.StatusInternalServerError, "failed to search memos")
		}
		return c.JSON(http.StatusOK, memos)
	}
}

func healthCheck(svc *service.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, svc.Health(c.Request().Context()))
	}
}
