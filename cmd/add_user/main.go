package main

import (
	"flag"
	"fmt"
	"os"

	"tritue-center/app/config"
	"tritue-center/app/database"
	"tritue-center/app/models"
)

func main() {
	email := flag.String("email", "", "user email")
	password := flag.String("password", "", "initial password")
	firstName := flag.String("first", "", "first name")
	lastName := flag.String("last", "", "last name")
	role := flag.String("role", "admin", "role to assign (admin, teacher, accountant)")
	flag.Parse()

	if *email == "" || *password == "" || *firstName == "" {
		fmt.Println("Usage: add_user -email <email> -password <password> -first <name> [-last <name>] [-role <role>]")
		os.Exit(1)
	}

	config.InitDB()
	db := config.GetDB()
	defer db.Close()

	user := &models.User{
		Email:     *email,
		Password:  *password,
		FirstName: *firstName,
		LastName:  *lastName,
	}

	if err := database.CreateUser(db, user, *role); err != nil {
		fmt.Printf("Error creating user: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("User created successfully: %s %s (%s) with role %s\n", user.FirstName, user.LastName, user.Email, *role)
}
