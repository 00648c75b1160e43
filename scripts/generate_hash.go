//go:build ignore

// generate_hash.go печатает ADMIN_PASSWORD_HASH и случайный SECRET_KEY для .env.
// Запуск: go run scripts/generate_hash.go <пароль>
// Без аргумента пароль читается из переменной ADMIN_PASSWORD.
package main

import (
	"fmt"
	"os"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"serotonyl.ru/sharkspin/internal/features/admin"
)

func main() {
	password := os.Getenv("ADMIN_PASSWORD")
	if len(os.Args) > 1 {
		password = os.Args[1]
	}
	if password == "" {
		fmt.Println("Использование: go run scripts/generate_hash.go <пароль>")
		os.Exit(1)
	}

	hash, err := admin.HashPassword(password, admin.DefaultHashParams)
	if err != nil {
		fmt.Printf("Ошибка хеширования: %v\n", err)
		os.Exit(1)
	}

	secret, err := gonanoid.New(48)
	if err != nil {
		fmt.Printf("Ошибка генерации ключа: %v\n", err)
		os.Exit(1)
	}

	// Одинарные кавычки: в хеше есть $
	fmt.Printf("ADMIN_PASSWORD_HASH='%s'\n", hash)
	fmt.Printf("SECRET_KEY=%s\n", secret)
}
