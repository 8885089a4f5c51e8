// Command seed loads development fixtures: a few users, travel posts with
// like entries, and comments linked into their posts.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"wanderlog/internal/models"
	"wanderlog/internal/repositories"
	"wanderlog/pkg/config"

	"go.mongodb.org/mongo-driver/bson"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	clean := flag.Bool("clean", true, "Clear existing data before seeding")
	flag.Parse()

	cfg := config.Load()
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize databases: %v", err)
	}
	defer db.CloseDB()

	if err := db.Postgres.AutoMigrate(&models.User{}); err != nil {
		log.Fatalf("Failed to auto migrate models: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	mongoDB := db.Mongo.Database(cfg.MongoDatabase)
	if *clean {
		if err := db.Postgres.Exec("DELETE FROM users").Error; err != nil {
			log.Fatalf("Failed to clear users: %v", err)
		}
		for _, name := range []string{"posts", "comments"} {
			if _, err := mongoDB.Collection(name).DeleteMany(ctx, bson.D{}); err != nil {
				log.Fatalf("Failed to clear %s: %v", name, err)
			}
		}
		log.Println("Cleared existing data")
	}

	userRepo := repositories.NewPostgresUserRepository(db.Postgres)
	postRepo := repositories.NewMongoPostRepository(mongoDB)
	commentRepo := repositories.NewMongoCommentRepository(mongoDB)

	users := seedUsers(userRepo)
	posts := seedPosts(ctx, postRepo, users)
	seedComments(ctx, commentRepo, postRepo, users, posts)

	log.Printf("Seeded %d users, %d posts", len(users), len(posts))
}

func seedUsers(repo repositories.UserRepository) []*models.User {
	fixtures := []models.User{
		{Name: "Juan Pérez", Username: "juanp", Email: "juan@example.com", Avatar: "https://randomuser.me/api/portraits/men/1.jpg"},
		{Name: "María García", Username: "mariag", Email: "maria@example.com", Avatar: "https://randomuser.me/api/portraits/women/1.jpg"},
		{Name: "Carlos López", Username: "carlosl", Email: "carlos@example.com", Avatar: "https://randomuser.me/api/portraits/men/2.jpg", Role: models.RoleAdmin},
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("123456"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("Failed to hash seed password: %v", err)
	}

	users := make([]*models.User, 0, len(fixtures))
	for i := range fixtures {
		u := fixtures[i]
		u.Password = string(hash)
		if u.Role == "" {
			u.Role = models.RoleUser
		}
		if err := repo.CreateUser(&u); err != nil {
			log.Fatalf("Failed to create user %s: %v", u.Email, err)
		}
		users = append(users, &u)
	}
	log.Printf("Created users: %d", len(users))
	return users
}

func seedPosts(ctx context.Context, repo repositories.PostRepository, users []*models.User) []*models.Post {
	fixtures := []models.Post{
		{
			Title:       "Mi aventura en Machu Picchu",
			Description: "Un viaje increíble por las ruinas más famosas de Perú. La experiencia fue única y las vistas espectaculares.",
			ImageURL:    "https://images.unsplash.com/photo-1526392060635-9d6019884377?w=800",
			Location:    "Machu Picchu, Perú",
			Tags:        []string{"montaña", "historia"},
			AuthorID:    users[0].ID,
		},
		{
			Title:       "Explorar las calles de París",
			Description: "Caminar por las calles empedradas de París es como viajar en el tiempo. Cada rincón tiene su historia.",
			ImageURL:    "https://images.unsplash.com/photo-1502602898536-47ad22581b52?w=800",
			Location:    "París, Francia",
			Tags:        []string{"ciudad", "cultura"},
			AuthorID:    users[1].ID,
		},
		{
			Title:       "Safari en Kenia",
			Description: "Una experiencia única observando la vida salvaje en su hábitat natural. Los paisajes son impresionantes.",
			ImageURL:    "https://images.unsplash.com/photo-1547036967-23d11aacaee0?w=800",
			Location:    "Masai Mara, Kenia",
			Tags:        []string{"naturaleza", "aventura"},
			AuthorID:    users[2].ID,
		},
	}

	posts := make([]*models.Post, 0, len(fixtures))
	for i := range fixtures {
		p := fixtures[i]
		if err := repo.CreatePost(ctx, &p); err != nil {
			log.Fatalf("Failed to create post %q: %v", p.Title, err)
		}
		// Every other user likes the post
		for _, u := range users {
			if u.ID != p.AuthorID {
				if _, _, err := repo.ToggleLike(ctx, p.ID.Hex(), u.ID); err != nil {
					log.Fatalf("Failed to like post %q: %v", p.Title, err)
				}
			}
		}
		posts = append(posts, &p)
	}
	log.Printf("Created posts: %d", len(posts))
	return posts
}

func seedComments(ctx context.Context, commentRepo repositories.CommentRepository, postRepo repositories.PostRepository, users []*models.User, posts []*models.Post) {
	contents := []string{
		"¡Qué fotos tan increíbles!",
		"Este destino está en mi lista.",
		"Gracias por compartir la experiencia.",
	}

	count := 0
	for i, p := range posts {
		author := users[(i+1)%len(users)]
		comment := &models.Comment{
			Content:  contents[i%len(contents)],
			AuthorID: author.ID,
			PostID:   p.ID,
		}
		if err := commentRepo.CreateComment(ctx, comment); err != nil {
			log.Fatalf("Failed to create comment: %v", err)
		}
		if err := postRepo.PushCommentID(ctx, p.ID, comment.ID); err != nil {
			log.Fatalf("Failed to link comment: %v", err)
		}
		count++
	}
	log.Printf("Created comments: %d", count)
}
