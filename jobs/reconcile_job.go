package jobs

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"garagehub-api/models"
)

// ReconcileJob periodically sweeps rows left behind by an interrupted
// cascade: photos whose vehicle is gone and follow edges whose endpoint user
// is gone. Orphans are non-fatal (readers never join through them) but the
// sweep keeps the hierarchy self-healing.
type ReconcileJob struct {
	db     *gorm.DB
	ticker *time.Ticker
	done   chan bool
}

func NewReconcileJob(db *gorm.DB, interval time.Duration) *ReconcileJob {
	return &ReconcileJob{
		db:     db,
		ticker: time.NewTicker(interval),
		done:   make(chan bool),
	}
}

// Start begins the reconciliation job
func (j *ReconcileJob) Start() {
	fmt.Println("Reconciliation job started")

	go func() {
		// Run immediately on start
		j.reconcile()

		for {
			select {
			case <-j.ticker.C:
				j.reconcile()
			case <-j.done:
				fmt.Println("Reconciliation job stopped")
				return
			}
		}
	}()
}

// Stop stops the reconciliation job
func (j *ReconcileJob) Stop() {
	j.ticker.Stop()
	j.done <- true
}

func (j *ReconcileJob) reconcile() {
	res := j.db.Where("vehicle_id NOT IN (?)",
		j.db.Model(&models.Vehicle{}).Select("id"),
	).Delete(&models.Photo{})
	if res.Error != nil {
		fmt.Printf("Warning: orphan photo sweep failed: %v\n", res.Error)
	} else if res.RowsAffected > 0 {
		fmt.Printf("Reconciliation removed %d orphaned photos\n", res.RowsAffected)
	}

	res = j.db.Where(
		"follower_id NOT IN (?) OR following_id NOT IN (?)",
		j.db.Model(&models.User{}).Select("id"),
		j.db.Model(&models.User{}).Select("id"),
	).Delete(&models.Follow{})
	if res.Error != nil {
		fmt.Printf("Warning: orphan follow sweep failed: %v\n", res.Error)
	} else if res.RowsAffected > 0 {
		fmt.Printf("Reconciliation removed %d orphaned follow edges\n", res.RowsAffected)
	}
}
