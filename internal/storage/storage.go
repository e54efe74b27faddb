package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

var (
	ErrNotFound = errors.New("storage: record not found")
	ErrConflict = errors.New("storage: status transition conflict")
)

const (
	PostTypeResume  = "resume"
	PostTypeVacancy = "vacancy"

	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
	StatusDeleted  = "deleted"

	MappingReview  = "review"
	MappingChannel = "channel"

	RoleCandidate  = "candidate"
	RoleHR         = "hr"
	RoleAdmin      = "admin"
	RoleSuperAdmin = "superadmin"
)

type Storage struct {
	db *sql.DB
}

type User struct {
	ID       int64
	Name     string
	Username string
	Language string
	Role     string
}

// PostFields is the named record behind the form's positional answers.
// Resume and vacancy posts share the struct; fields that do not apply to a
// given type stay empty.
type PostFields struct {
	Profession string
	Category   string
	Company    string
	Experience string
	Salary     string
	Name       string
	Age        string
	Gender     string
	Region     string
	Employment string
	Languages  []string
	Portfolio  string
	Skills     string
	Phone      string
	Username   string
	ResumeFile string
}

type Post struct {
	ID        int64
	PublicID  string
	Type      string
	Status    string
	UserID    int64
	Fields    PostFields
	ImagePath string
	Views     int64
	CreatedAt time.Time
}

func NewStorage(dbPath string) (*Storage, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("could not open database: %w", err)
	}
	// A single connection serializes writers, so a racing conditional
	// update waits instead of surfacing SQLITE_BUSY; the loser then
	// matches zero rows and gets ErrConflict.
	db.SetMaxOpenConns(1)
	if err = db.Ping(); err != nil {
		return nil, fmt.Errorf("could not connect to database: %w", err)
	}
	s := &Storage{db: db}
	if err = s.initSchema(); err != nil {
		return nil, fmt.Errorf("could not initialize database schema: %w", err)
	}
	log.Println("Database connection successful and schema initialized.")
	return s, nil
}

func (s *Storage) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS users (
			user_id INTEGER PRIMARY KEY,
			name TEXT NOT NULL DEFAULT '',
			username TEXT NOT NULL DEFAULT '',
			language TEXT NOT NULL DEFAULT '',
			role TEXT NOT NULL DEFAULT 'candidate'
		);`,

		`CREATE TABLE IF NOT EXISTS posts (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			public_id TEXT NOT NULL UNIQUE,
			type TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'pending',
			user_id INTEGER NOT NULL,
			profession TEXT NOT NULL DEFAULT '',
			category TEXT NOT NULL DEFAULT '',
			company TEXT NOT NULL DEFAULT '',
			experience TEXT NOT NULL DEFAULT '',
			salary TEXT NOT NULL DEFAULT '',
			name TEXT NOT NULL DEFAULT '',
			age TEXT NOT NULL DEFAULT '',
			gender TEXT NOT NULL DEFAULT '',
			region TEXT NOT NULL DEFAULT '',
			employment TEXT NOT NULL DEFAULT '',
			languages TEXT NOT NULL DEFAULT '',
			portfolio TEXT NOT NULL DEFAULT '',
			skills TEXT NOT NULL DEFAULT '',
			phone TEXT NOT NULL DEFAULT '',
			username TEXT NOT NULL DEFAULT '',
			resume_file TEXT NOT NULL DEFAULT '',
			image_path TEXT NOT NULL DEFAULT '',
			views INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY(user_id) REFERENCES users(user_id)
		);`,

		`CREATE TABLE IF NOT EXISTS broadcast_mappings (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			post_id INTEGER NOT NULL,
			kind TEXT NOT NULL,
			chat_id INTEGER NOT NULL,
			message_id INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY(post_id) REFERENCES posts(id),
			UNIQUE(post_id, kind)
		);`,

		`CREATE TABLE IF NOT EXISTS categories (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			canonical_name TEXT NOT NULL UNIQUE
		);`,

		`CREATE TABLE IF NOT EXISTS category_translations (
			category_id INTEGER NOT NULL,
			lang TEXT NOT NULL,
			name TEXT NOT NULL,
			PRIMARY KEY (category_id, lang),
			FOREIGN KEY(category_id) REFERENCES categories(id)
		);`,

		`CREATE TABLE IF NOT EXISTS subcategories (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			category_id INTEGER NOT NULL,
			canonical_name TEXT NOT NULL,
			FOREIGN KEY(category_id) REFERENCES categories(id),
			UNIQUE(category_id, canonical_name)
		);`,

		`CREATE TABLE IF NOT EXISTS subcategory_translations (
			subcategory_id INTEGER NOT NULL,
			lang TEXT NOT NULL,
			name TEXT NOT NULL,
			PRIMARY KEY (subcategory_id, lang),
			FOREIGN KEY(subcategory_id) REFERENCES subcategories(id)
		);`,

		`CREATE INDEX IF NOT EXISTS idx_broadcast_lookup
			ON broadcast_mappings (kind, chat_id, message_id);`,
	}
	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			if !strings.Contains(err.Error(), "already exists") {
				return fmt.Errorf("schema execution failed for query '%s': %w", query, err)
			}
		}
	}
	return nil
}

func (s *Storage) Close() {
	s.db.Close()
}

func (s *Storage) UpsertUser(userID int64, name, username string) error {
	query := `INSERT INTO users (user_id, name, username) VALUES (?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET name = excluded.name, username = excluded.username;`
	_, err := s.db.Exec(query, userID, name, username)
	return err
}

func (s *Storage) SetUserRole(userID int64, role string) error {
	query := `INSERT INTO users (user_id, role) VALUES (?, ?)
		ON CONFLICT(user_id) DO UPDATE SET role = excluded.role;`
	_, err := s.db.Exec(query, userID, role)
	return err
}

func (s *Storage) IsUserAdmin(userID int64) (bool, error) {
	var role string
	query := `SELECT role FROM users WHERE user_id = ?`
	err := s.db.QueryRow(query, userID).Scan(&role)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, err
	}
	return role == RoleAdmin || role == RoleSuperAdmin, nil
}

func (s *Storage) SetUserLanguage(userID int64, lang string) error {
	query := `INSERT INTO users (user_id, language) VALUES (?, ?)
		ON CONFLICT(user_id) DO UPDATE SET language = excluded.language;`
	_, err := s.db.Exec(query, userID, lang)
	return err
}

func (s *Storage) GetUserLanguage(userID int64) (string, error) {
	var lang string
	query := `SELECT language FROM users WHERE user_id = ?`
	err := s.db.QueryRow(query, userID).Scan(&lang)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", nil
		}
		return "", err
	}
	return lang, nil
}

func (s *Storage) CreatePost(post *Post) (int64, error) {
	query := `INSERT INTO posts (
		public_id, type, status, user_id,
		profession, category, company, experience, salary, name, age, gender,
		region, employment, languages, portfolio, skills, phone, username,
		resume_file, image_path
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	f := post.Fields
	res, err := s.db.Exec(query,
		post.PublicID, post.Type, StatusPending, post.UserID,
		f.Profession, f.Category, f.Company, f.Experience, f.Salary, f.Name,
		f.Age, f.Gender, f.Region, f.Employment, strings.Join(f.Languages, ", "),
		f.Portfolio, f.Skills, f.Phone, f.Username,
		f.ResumeFile, post.ImagePath,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

const postColumns = `id, public_id, type, status, user_id,
	profession, category, company, experience, salary, name, age, gender,
	region, employment, languages, portfolio, skills, phone, username,
	resume_file, image_path, views, created_at`

func (s *Storage) scanPost(row *sql.Row) (*Post, error) {
	var post Post
	var languages string
	err := row.Scan(
		&post.ID, &post.PublicID, &post.Type, &post.Status, &post.UserID,
		&post.Fields.Profession, &post.Fields.Category, &post.Fields.Company,
		&post.Fields.Experience, &post.Fields.Salary, &post.Fields.Name,
		&post.Fields.Age, &post.Fields.Gender, &post.Fields.Region,
		&post.Fields.Employment, &languages, &post.Fields.Portfolio,
		&post.Fields.Skills, &post.Fields.Phone, &post.Fields.Username,
		&post.Fields.ResumeFile, &post.ImagePath, &post.Views, &post.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if languages != "" {
		post.Fields.Languages = strings.Split(languages, ", ")
	}
	return &post, nil
}

func (s *Storage) GetPostByID(id int64) (*Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = ?`
	return s.scanPost(s.db.QueryRow(query, id))
}

func (s *Storage) GetPostByPublicID(publicID string) (*Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE public_id = ?`
	return s.scanPost(s.db.QueryRow(query, publicID))
}

// GetPostByAnyID accepts either the internal numeric id or the public id.
func (s *Storage) GetPostByAnyID(id string) (*Post, error) {
	if numeric, err := strconv.ParseInt(id, 10, 64); err == nil {
		post, err := s.GetPostByID(numeric)
		if err == nil || !errors.Is(err, ErrNotFound) {
			return post, err
		}
	}
	return s.GetPostByPublicID(id)
}

// TransitionPostStatus flips the status in a single conditional update.
// Two racing callers cannot both succeed: the losing update matches zero
// rows and reports ErrConflict.
func (s *Storage) TransitionPostStatus(id int64, from, to string) error {
	query := `UPDATE posts SET status = ? WHERE id = ? AND status = ?`
	res, err := s.db.Exec(query, to, id, from)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrConflict
	}
	return nil
}

func (s *Storage) RecordBroadcastMapping(postID int64, kind string, chatID int64, messageID int) error {
	query := `INSERT INTO broadcast_mappings (post_id, kind, chat_id, message_id) VALUES (?, ?, ?, ?)`
	_, err := s.db.Exec(query, postID, kind, chatID, messageID)
	return err
}

func (s *Storage) FindPostByBroadcastMessage(kind string, chatID int64, messageID int) (*Post, error) {
	var postID int64
	query := `SELECT post_id FROM broadcast_mappings WHERE kind = ? AND chat_id = ? AND message_id = ?`
	err := s.db.QueryRow(query, kind, chatID, messageID).Scan(&postID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.GetPostByID(postID)
}

func (s *Storage) GetBroadcastMapping(postID int64, kind string) (chatID int64, messageID int, err error) {
	query := `SELECT chat_id, message_id FROM broadcast_mappings WHERE post_id = ? AND kind = ?`
	err = s.db.QueryRow(query, postID, kind).Scan(&chatID, &messageID)
	if err == sql.ErrNoRows {
		err = ErrNotFound
	}
	return chatID, messageID, err
}

func (s *Storage) IncrementViews(publicID string) error {
	query := `UPDATE posts SET views = views + 1 WHERE public_id = ?`
	_, err := s.db.Exec(query, publicID)
	return err
}

func (s *Storage) GetViews(publicID string) (int64, error) {
	var views int64
	query := `SELECT views FROM posts WHERE public_id = ?`
	err := s.db.QueryRow(query, publicID).Scan(&views)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, ErrNotFound
		}
		return 0, err
	}
	return views, nil
}
