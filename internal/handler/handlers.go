package handler

import (
	"errors"
	"fmt"
	"net/http"
	"whoishistory/internal/service"
	"whoishistory/internal/utils"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	History *service.HistoryService
}

func NewHandler(history *service.HistoryService) *Handler {
	return &Handler{History: history}
}

// Index serves the single page: the domain selector, and when `d` names a
// known domain, its full WHOIS history. Non-fatal problems collect into an
// error list rendered at the bottom of the page; a schema mismatch aborts
// the whole response.
func (h *Handler) Index(c echo.Context) error {
	ctx := c.Request().Context()

	if err := h.History.CheckSchemaVersion(ctx); err != nil {
		var sve *service.SchemaVersionError
		if errors.As(err, &sve) {
			return c.String(http.StatusInternalServerError, sve.Error())
		}
		return err
	}

	domains, err := h.History.DomainNames(ctx)
	if err != nil {
		return err
	}

	var pageErrors []string
	var view *service.DomainHistory
	selected := ""

	if candidate := c.QueryParam("d"); candidate != "" {
		switch {
		case !utils.IsValidDomain(candidate):
			pageErrors = append(pageErrors, "Invalid domain name specified")
		case !knownDomain(domains, candidate):
			pageErrors = append(pageErrors, fmt.Sprintf("%s is not found in our database", candidate))
		default:
			v, errs, err := h.History.History(ctx, candidate)
			if err != nil {
				return err
			}
			pageErrors = append(pageErrors, errs...)
			if v != nil {
				view = v
				selected = candidate
			}
		}
	}

	return c.Render(http.StatusOK, "history.html", map[string]interface{}{
		"domains":  domains,
		"selected": selected,
		"view":     view,
		"errors":   pageErrors,
	})
}

func knownDomain(domains []string, candidate string) bool {
	for _, d := range domains {
		if d == candidate {
			return true
		}
	}
	return false
}
