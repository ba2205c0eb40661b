package model

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/thep200/github-user-crawler/cfg"
	"github.com/thep200/github-user-crawler/pkg/db"
	"github.com/thep200/github-user-crawler/pkg/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// User is the MySQL row for one ranked account. Nullable counters hold the
// unavailable marker as NULL.
type User struct {
	Model
	Login               string        `json:"login" gorm:"column:login;type:varchar(255);primaryKey"`
	GithubID            int64         `json:"id" gorm:"column:github_id;index"`
	Rank                int           `json:"rank" gorm:"column:search_rank;index"`
	AvatarURL           string        `json:"avatar_url" gorm:"column:avatar_url;type:varchar(512)"`
	HTMLURL             string        `json:"html_url" gorm:"column:html_url;type:varchar(512)"`
	Type                string        `json:"type" gorm:"column:type;type:varchar(32)"`
	Enriched            bool          `json:"enriched" gorm:"column:enriched;default:false"`
	Followers           *int          `json:"followers" gorm:"column:followers;index"`
	Following           *int          `json:"following" gorm:"column:following"`
	Location            *string       `json:"location" gorm:"column:location;type:varchar(255)"`
	Name                *string       `json:"name" gorm:"column:name;type:varchar(255)"`
	PublicRepos         *int          `json:"public_repos" gorm:"column:public_repos"`
	PublicGists         *int          `json:"public_gists" gorm:"column:public_gists"`
	SponsorsCount       *int          `json:"sponsors_count" gorm:"column:sponsors_count"`
	SponsoringCount     *int          `json:"sponsoring_count" gorm:"column:sponsoring_count"`
	AvatarUpdatedAt     string        `json:"avatar_updated_at" gorm:"column:avatar_updated_at;type:varchar(64)"`
	FollowersPrevious   *int          `json:"followers_previous" gorm:"column:followers_previous"`
	FollowersGrowthPct  *float64      `json:"followers_growth_pct" gorm:"column:followers_growth_pct"`
	FollowersSnapshotAt *int64        `json:"followers_snapshot_at" gorm:"column:followers_snapshot_at"`
	TopLanguages        []TopLanguage `json:"top_languages" gorm:"column:top_languages;serializer:json"`
	LanguageUnit        string        `json:"language_unit" gorm:"column:language_unit;type:varchar(16)"`
	TotalStars          int           `json:"total_stars" gorm:"column:total_stars;default:0"`
	LastRepoPushedAt    string        `json:"last_repo_pushed_at" gorm:"column:last_repo_pushed_at;type:varchar(64)"`
	LastPublicCommitAt  string        `json:"last_public_commit_at" gorm:"column:last_public_commit_at;type:varchar(64)"`
}

func NewUser(config *cfg.Config, logger log.Logger, db *db.Mysql) (*User, error) {
	user := &User{
		Model: Model{
			Config: config,
			Logger: logger,
			Mysql:  db,
		},
	}
	return user, nil
}

func (u *User) TableName() string {
	return "users"
}

// UserFromRecord flattens a record into a row. rank is 1-based.
func UserFromRecord(rank int, r UserRecord) User {
	row := User{
		Login:     TruncateString(r.Login, 250),
		GithubID:  r.ID,
		Rank:      rank,
		AvatarURL: r.AvatarURL,
		HTMLURL:   r.HTMLURL,
		Type:      r.Type,
	}
	if r.Details == nil {
		return row
	}

	d := r.Details
	row.Enriched = true
	row.Followers = d.Followers.Ptr()
	row.Following = d.Following.Ptr()
	row.Location = d.Location
	row.Name = d.Name
	row.PublicRepos = d.PublicRepos.Ptr()
	row.PublicGists = d.PublicGists.Ptr()
	row.SponsorsCount = d.SponsorsCount.Ptr()
	row.SponsoringCount = d.SponsoringCount.Ptr()
	row.AvatarUpdatedAt = d.AvatarUpdatedAt
	row.FollowersPrevious = d.FollowersPrevious
	row.FollowersGrowthPct = d.FollowersGrowthPct
	snapshotAt := d.FollowersSnapshotAt
	row.FollowersSnapshotAt = &snapshotAt
	row.TopLanguages = d.TopLanguages
	row.LanguageUnit = string(d.LanguageUnit)
	row.TotalStars = d.TotalStars
	row.LastRepoPushedAt = d.LastRepoPushedAt
	row.LastPublicCommitAt = d.LastPublicCommitAt
	return row
}

// Record rebuilds the output record stored in the row.
func (u *User) Record() UserRecord {
	r := UserRecord{
		Candidate: Candidate{
			Login:     u.Login,
			ID:        u.GithubID,
			AvatarURL: u.AvatarURL,
			HTMLURL:   u.HTMLURL,
			Type:      u.Type,
		},
	}
	if !u.Enriched {
		return r
	}

	r.Details = &Details{
		Followers:          FromPtr(u.Followers),
		Following:          FromPtr(u.Following),
		Location:           u.Location,
		Name:               u.Name,
		PublicRepos:        FromPtr(u.PublicRepos),
		PublicGists:        FromPtr(u.PublicGists),
		SponsorsCount:      FromPtr(u.SponsorsCount),
		SponsoringCount:    FromPtr(u.SponsoringCount),
		AvatarUpdatedAt:    u.AvatarUpdatedAt,
		FollowersPrevious:  u.FollowersPrevious,
		FollowersGrowthPct: u.FollowersGrowthPct,
		TopLanguages:       u.TopLanguages,
		LanguageUnit:       LanguageUnit(u.LanguageUnit),
		TotalStars:         u.TotalStars,
		LastRepoPushedAt:   u.LastRepoPushedAt,
		LastPublicCommitAt: u.LastPublicCommitAt,
	}
	if u.FollowersSnapshotAt != nil {
		r.Details.FollowersSnapshotAt = *u.FollowersSnapshotAt
	}
	return r
}

// Snapshot returns the trending state stored in the row.
func (u *User) Snapshot() Snapshot {
	return Snapshot{
		Login:      u.Login,
		Followers:  FromPtr(u.Followers),
		GrowthPct:  u.FollowersGrowthPct,
		SnapshotAt: u.FollowersSnapshotAt,
	}
}

// UpsertBatch writes the rows in one transaction, replacing rows with the
// same login.
func (u *User) UpsertBatch(ctx context.Context, messages []UserMessage) error {
	gdb, err := u.Mysql.Db()
	if err != nil {
		return fmt.Errorf("failed to get database connection: %w", err)
	}

	now := time.Now()
	rows := make([]User, 0, len(messages))
	for _, msg := range messages {
		row := UserFromRecord(msg.Rank, msg.Record)
		row.CreatedAt = now
		row.UpdatedAt = now
		rows = append(rows, row)
	}
	if len(rows) == 0 {
		return nil
	}

	updateColumns := []string{
		"github_id", "search_rank", "avatar_url", "html_url", "type", "enriched",
		"followers", "following", "location", "name", "public_repos", "public_gists",
		"sponsors_count", "sponsoring_count", "avatar_updated_at",
		"followers_previous", "followers_growth_pct", "followers_snapshot_at",
		"top_languages", "language_unit", "total_stars",
		"last_repo_pushed_at", "last_public_commit_at", "updated_at",
	}

	return gdb.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "login"}},
			DoUpdates: clause.AssignmentColumns(updateColumns),
		}).CreateInBatches(rows, 100)

		if result.Error != nil {
			return fmt.Errorf("failed to batch upsert users: %w", result.Error)
		}
		u.Logger.Info(ctx, "Upserted %d users", len(rows))
		return nil
	})
}

// FindAll returns every row ordered by rank.
func (u *User) FindAll(ctx context.Context) ([]User, error) {
	gdb, err := u.Mysql.Db()
	if err != nil {
		return nil, fmt.Errorf("failed to get database connection: %w", err)
	}

	var users []User
	if err := gdb.WithContext(ctx).Order("search_rank ASC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}
	return users, nil
}

// Page returns one page ordered by followers, optionally filtered by a
// login/name substring, plus the total number of matching rows.
func (u *User) Page(ctx context.Context, page, pageSize int, search string) ([]User, int64, error) {
	gdb, err := u.Mysql.Db()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get database connection: %w", err)
	}

	query := gdb.WithContext(ctx).Model(&User{})
	if search = strings.TrimSpace(search); search != "" {
		like := "%" + search + "%"
		query = query.Where("login LIKE ? OR name LIKE ?", like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	var users []User
	offset := (page - 1) * pageSize
	if err := query.Order("followers DESC").Offset(offset).Limit(pageSize).Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to page users: %w", err)
	}
	return users, total, nil
}

// FindByLogin matches case-insensitively. Returns gorm.ErrRecordNotFound if
// the login is unknown.
func (u *User) FindByLogin(ctx context.Context, login string) (*User, error) {
	gdb, err := u.Mysql.Db()
	if err != nil {
		return nil, fmt.Errorf("failed to get database connection: %w", err)
	}

	var user User
	if err := gdb.WithContext(ctx).Where("LOWER(login) = ?", strings.ToLower(login)).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
