// Package seed fills a development database with fake authors, readers,
// categories, posts and comments.
package seed

import (
	"context"
	"fmt"
	"log"
	"time"

	"inkwell/internal/models"
	"inkwell/internal/repository"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// DefaultPassword is the password of every seeded account.
const DefaultPassword = "password123"

// Options configuration for the seeder
type Options struct {
	Authors         int
	Readers         int
	Posts           int
	CommentsPerPost int
	Categories      int
	// SkipBcrypt hashes with the minimum cost; for tests and quick local runs.
	SkipBcrypt bool
	// Seed makes the generated data reproducible when non-zero.
	Seed int64
}

// DefaultOptions returns the options used by cmd/seed without flags.
func DefaultOptions() Options {
	return Options{
		Authors:         3,
		Readers:         20,
		Posts:           40,
		CommentsPerPost: 5,
		Categories:      8,
	}
}

// Result reports what a Seed run created.
type Result struct {
	Users      []models.User
	Categories []models.Category
	Posts      []models.Post
	Comments   int
}

var categoryNames = []string{
	"Technology", "Travel", "Food", "Books", "Programming", "Science", "History",
	"Philosophy", "Music", "Film", "Design", "Health", "Finance", "Gardening", "Photography",
}

// Seeder creates fixture data through the repositories.
type Seeder struct {
	db         *gorm.DB
	users      repository.UserRepository
	posts      repository.PostRepository
	comments   repository.CommentRepository
	categories repository.CategoryRepository
}

// NewSeeder binds a Seeder to db.
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{
		db:         db,
		users:      repository.NewUserRepository(db),
		posts:      repository.NewPostRepository(db),
		comments:   repository.NewCommentRepository(db),
		categories: repository.NewCategoryRepository(db),
	}
}

// ClearAll deletes every row of the blog tables, dependents first.
func (s *Seeder) ClearAll(ctx context.Context) error {
	log.Println("🗑️  Clearing existing data...")
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, table := range []string{"comments", "post_categories", "posts", "categories", "users"} {
			if err := tx.Exec("DELETE FROM " + table).Error; err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}
		return nil
	})
}

// Seed populates the database according to opts.
func (s *Seeder) Seed(ctx context.Context, opts Options) (*Result, error) {
	if opts.Seed != 0 {
		gofakeit.Seed(opts.Seed)
	} else {
		gofakeit.Seed(time.Now().UnixNano())
	}
	if opts.Posts > 0 && opts.Authors < 1 {
		return nil, fmt.Errorf("seeding %d posts needs at least one author", opts.Posts)
	}

	cost := bcrypt.DefaultCost
	if opts.SkipBcrypt {
		cost = bcrypt.MinCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), cost)
	if err != nil {
		return nil, fmt.Errorf("hash seed password: %w", err)
	}

	res := &Result{}
	authors, err := s.createUsers(ctx, opts.Authors, models.RoleAuthor, string(hash))
	if err != nil {
		return nil, err
	}
	readers, err := s.createUsers(ctx, opts.Readers, models.RoleUser, string(hash))
	if err != nil {
		return nil, err
	}
	res.Users = append(authors, readers...)
	log.Printf("✓ %d users created (%d authors)", len(res.Users), len(authors))

	if res.Categories, err = s.createCategories(ctx, opts.Categories); err != nil {
		return nil, err
	}
	log.Printf("✓ %d categories created", len(res.Categories))

	for i := 0; i < opts.Posts; i++ {
		author := authors[gofakeit.Number(0, len(authors)-1)]
		post, err := s.createPost(ctx, author, res.Categories)
		if err != nil {
			return nil, err
		}
		res.Posts = append(res.Posts, *post)

		for j := 0; j < opts.CommentsPerPost; j++ {
			commenter := res.Users[gofakeit.Number(0, len(res.Users)-1)]
			if err := s.createComment(ctx, commenter, post); err != nil {
				return nil, err
			}
			res.Comments++
		}
	}
	log.Printf("✓ %d posts and %d comments created", len(res.Posts), res.Comments)
	return res, nil
}

func (s *Seeder) createUsers(ctx context.Context, n int, role models.Role, hash string) ([]models.User, error) {
	users := make([]models.User, 0, n)
	for i := 0; i < n; i++ {
		u := &models.User{
			Username: fmt.Sprintf("%s_%s%d", role, gofakeit.Username(), i),
			Password: hash,
			Status:   role,
		}
		if err := s.users.Create(ctx, u); err != nil {
			return nil, fmt.Errorf("create %s: %w", role, err)
		}
		users = append(users, *u)
	}
	return users, nil
}

func (s *Seeder) createCategories(ctx context.Context, n int) ([]models.Category, error) {
	if n > len(categoryNames) {
		n = len(categoryNames)
	}
	cats := make([]models.Category, 0, n)
	for _, name := range categoryNames[:n] {
		c := &models.Category{Name: name}
		if err := s.categories.Create(ctx, c); err != nil {
			return nil, fmt.Errorf("create category %q: %w", name, err)
		}
		cats = append(cats, *c)
	}
	return cats, nil
}

func (s *Seeder) createPost(ctx context.Context, author models.User, cats []models.Category) (*models.Post, error) {
	post := &models.Post{
		Title:     truncate(gofakeit.Sentence(6), 400),
		Subheader: gofakeit.Sentence(10),
		Body:      gofakeit.Paragraph(3, 4, 12, "\n\n"),
		UserID:    author.ID,
	}
	// Most posts are published somewhere in the last three months.
	if gofakeit.Number(1, 10) <= 7 {
		published := gofakeit.DateRange(time.Now().AddDate(0, -3, 0), time.Now()).UTC()
		post.IsPublished = true
		post.PublishDate = &published
	}

	if err := s.posts.Create(ctx, post, pickCategories(cats)); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return post, nil
}

func (s *Seeder) createComment(ctx context.Context, user models.User, post *models.Post) error {
	date := time.Now().UTC()
	if post.PublishDate != nil {
		date = gofakeit.DateRange(*post.PublishDate, time.Now()).UTC()
	}
	comment := &models.Comment{
		Body:   truncate(gofakeit.Sentence(gofakeit.Number(4, 20)), 550),
		UserID: user.ID,
		PostID: post.ID,
		Date:   date,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return fmt.Errorf("create comment: %w", err)
	}
	return nil
}

// pickCategories returns up to three distinct category ids.
func pickCategories(cats []models.Category) []uint {
	if len(cats) == 0 {
		return []uint{}
	}
	want := gofakeit.Number(0, min(3, len(cats)))
	seen := make(map[uint]struct{}, want)
	ids := make([]uint, 0, want)
	for len(ids) < want {
		id := cats[gofakeit.Number(0, len(cats)-1)].ID
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
