package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/jvitormendess/jaci-api/internal/app"
)

type seedProduct struct {
	ID          string
	Name        string
	Price       string
	ImageURL    string
	Description string
	Category    string
	Tags        string
	UnitType    string
}

var products = []seedProduct{
	{"arroz-5kg", "Arroz Branco 5kg", "27.90", "https://images.unsplash.com/photo-1586201375761-83865001e31c?w=800", "Arroz branco tipo 1, pacote de 5kg.", "Mercearia", "arroz,graos", "unit"},
	{"feijao-carioca", "Feijão Carioca 1kg", "8.50", "https://images.unsplash.com/photo-1551462147-ff29053bfc14?w=800", "Feijão carioca tipo 1.", "Mercearia", "feijao,graos", "unit"},
	{"banana-prata", "Banana Prata", "4.99", "https://images.unsplash.com/photo-1571771894821-ce9b6c11b08e?w=800", "Banana prata fresca, preço por quilo.", "Hortifruti", "fruta", "kg"},
	{"tomate", "Tomate", "6.49", "https://images.unsplash.com/photo-1546094096-0df4bcaaa337?w=800", "Tomate maduro, preço por quilo.", "Hortifruti", "legume,salada", "kg"},
	{"queijo-minas", "Queijo Minas Frescal", "39.90", "https://images.unsplash.com/photo-1486297678162-eb2a19b0a32d?w=800", "Queijo minas frescal artesanal, preço por quilo.", "Frios", "queijo,laticinio", "kg"},
	{"carne-moida", "Carne Moída de Primeira", "34.90", "https://images.unsplash.com/photo-1603048297172-c92544798d5a?w=800", "Carne moída fresca, preço por quilo.", "Açougue", "carne,bovino", "kg"},
	{"frango-inteiro", "Frango Inteiro Congelado", "18.90", "https://images.unsplash.com/photo-1587593810167-a84920ea0781?w=800", "Frango inteiro congelado, preço por quilo.", "Açougue", "frango,congelado", "kg"},
	{"leite-integral", "Leite Integral 1L", "5.69", "https://images.unsplash.com/photo-1550583724-b2692b85b150?w=800", "Leite integral UHT, caixa de 1 litro.", "Laticínios", "leite,laticinio", "unit"},
	{"pao-frances", "Pão Francês", "16.90", "https://images.unsplash.com/photo-1549931319-a545dcf3bc73?w=800", "Pão francês assado na hora, preço por quilo.", "Padaria", "pao,padaria", "kg"},
	{"ovos-duzia", "Ovos Brancos Dúzia", "12.90", "https://images.unsplash.com/photo-1506976785307-8732e854ad03?w=800", "Cartela com 12 ovos brancos.", "Mercearia", "ovos", "unit"},
	{"cafe-500g", "Café Torrado e Moído 500g", "21.90", "https://images.unsplash.com/photo-1559056199-641a0ac8b55e?w=800", "Café torrado e moído, embalagem a vácuo.", "Mercearia", "cafe", "unit"},
	{"acucar-cristal", "Açúcar Cristal 1kg", "4.79", "https://images.unsplash.com/photo-1581268497089-9e4a28b6ab3e?w=800", "Açúcar cristal, pacote de 1kg.", "Mercearia", "acucar", "unit"},
	{"oleo-soja", "Óleo de Soja 900ml", "7.49", "https://images.unsplash.com/photo-1474979266404-7eaacbcd87c5?w=800", "Óleo de soja refinado, garrafa de 900ml.", "Mercearia", "oleo", "unit"},
	{"cebola", "Cebola", "5.29", "https://images.unsplash.com/photo-1518977956812-cd3dbadaaf31?w=800", "Cebola nacional, preço por quilo.", "Hortifruti", "legume", "kg"},
	{"sabao-po", "Sabão em Pó 800g", "13.90", "https://images.unsplash.com/photo-1583947215259-38e31be8751f?w=800", "Sabão em pó multiuso.", "Limpeza", "limpeza,lavanderia", "unit"},
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, relying on environment variables")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := app.RunMigrations(dbURL); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		log.Fatalf("failed to open database pool: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("failed to ping database: %v", err)
	}

	log.Println("seeding products...")
	for _, p := range products {
		_, err := pool.Exec(ctx, `
			INSERT INTO products (id, name, price, image_url, description, category, tags, unit_type)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			ON CONFLICT (id) DO UPDATE SET
				name = EXCLUDED.name,
				price = EXCLUDED.price,
				image_url = EXCLUDED.image_url,
				description = EXCLUDED.description,
				category = EXCLUDED.category,
				tags = EXCLUDED.tags,
				unit_type = EXCLUDED.unit_type,
				updated_at = now();
		`, p.ID, p.Name, p.Price, p.ImageURL, p.Description, p.Category, p.Tags, p.UnitType)
		if err != nil {
			log.Fatalf("failed to seed product %s: %v", p.ID, err)
		}
	}

	log.Printf("seeding completed, %d products upserted", len(products))
}
