package bootstrap

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/thistracker/thistracker-backend/config"
	"github.com/thistracker/thistracker-backend/internal/apperr"
	"github.com/thistracker/thistracker-backend/internal/auth"
	"github.com/thistracker/thistracker-backend/internal/sheets"
	trackerhttp "github.com/thistracker/thistracker-backend/internal/tracker/http"
	"github.com/thistracker/thistracker-backend/internal/tracker/repository"
	"github.com/thistracker/thistracker-backend/internal/tracker/service"
)

const serviceName = "thistracker"

// NewServiceFactory wires the per-request service chain: Google transport
// from the caller's access token, provisioner, sync engine, store, facade.
// The rate limiter is shared across all requests because the quota being
// protected is process-wide, not per-principal. Provisioned spreadsheet ids
// are cached per principal so only the first request pays the discovery
// round-trips.
func NewServiceFactory(cfg *config.Config, rdb *redis.Client) trackerhttp.ServiceFactory {
	limiter := rate.NewLimiter(
		rate.Every(time.Minute/time.Duration(cfg.Sheets.RatePerMinute)),
		cfg.Sheets.RateBurst,
	)
	locks := sheets.NewTabLock(rdb)
	tabs := repository.NewTabSet(
		cfg.Sheets.ClientsTab,
		cfg.Sheets.ProjectsTab,
		cfg.Sheets.TasksTab,
		cfg.Sheets.TimeEntriesTab,
		cfg.Sheets.SettingsTab,
	)
	spec := tabs.ProvisionSpec(
		cfg.Sheets.SpreadsheetName,
		cfg.Sheets.SpreadsheetBase,
		serviceName,
		cfg.App.Version,
	)

	var spreadsheetIDs sync.Map // firebase uid -> spreadsheet id

	return func(c *gin.Context) (*service.DataService, error) {
		token := auth.GoogleToken(c)
		if token == "" {
			return nil, apperr.New(apperr.AuthRequired, "Authentication required. Please sign in to access your data.")
		}

		ctx := c.Request.Context()
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		tr, err := sheets.NewGoogleTransport(ctx, ts, limiter)
		if err != nil {
			return nil, err
		}

		prov := sheets.NewProvisioner(tr, spec)
		uid := auth.UserFirebaseUID(c)

		var spreadsheetID string
		if cached, ok := spreadsheetIDs.Load(uid); ok {
			spreadsheetID = cached.(string)
		} else {
			spreadsheetID, err = prov.Initialize(ctx)
			if err != nil {
				return nil, err
			}
			spreadsheetIDs.Store(uid, spreadsheetID)
		}

		eng := sheets.NewEngine(tr, spreadsheetID, locks)
		store := repository.NewStore(eng, tabs)
		return service.NewDataService(store, prov), nil
	}
}
