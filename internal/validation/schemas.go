package validation

import (
	"inkwell/internal/models"
)

const (
	MaxUsernameLength = 100
	MinPasswordLength = 8
	MaxTitleLength    = 400
	MaxCommentLength  = 550
)

func roleNames() []string {
	names := make([]string, 0, len(models.Roles))
	for _, r := range models.Roles {
		names = append(names, string(r))
	}
	return names
}

func username() *Chain {
	return Field("username").Trim().
		Required("Username is required.").
		MaxLength(MaxUsernameLength, "Username must not exceed 100 characters.").
		Escape()
}

func password() *Chain {
	return Field("password").Trim().
		Required("Password is required.").
		MinLength(MinPasswordLength, "Password must be at least 8 characters.")
}

// Login checks credentials before the store is consulted.
var Login = NewSchema("login",
	Field("username").Trim().Required("Username is required.").Escape(),
	Field("password").Trim().Required("Password is required."),
)

// Register checks a new account.
var Register = NewSchema("register",
	username(),
	password(),
	Field("confirmPassword").Trim().
		Custom("Passwords do not match", func(v string, b Body) bool {
			return v == b.String("password")
		}),
)

// UpdateUser checks a partial profile update.
var UpdateUser = NewSchema("update-user",
	username().Optional(),
	password().OptionalFalsy(),
	Field("confirmPassword").OptionalFalsy().Trim().
		Custom("Passwords do not match", func(v string, b Body) bool {
			return v == b.String("password")
		}),
	Field("status").OptionalFalsy().
		OneOf(roleNames(), "Invalid status - must be 'guest', 'user' or 'author'."),
)

func title() *Chain {
	return Field("title").Trim().
		Required("Post title is required.").
		MaxLength(MaxTitleLength, "Post title must not exceed 400 characters.").
		Escape()
}

func postBody() *Chain {
	return Field("body").Trim().Required("Post body is required.").Escape()
}

func categories() *Chain {
	return Field("categories").Optional().
		Custom("Categories must be a list of category ids.", func(_ string, b Body) bool {
			_, err := ParseIDList(b["categories"])
			return err == nil
		})
}

// publishDateRequired rejects a published post without a publish date.
func publishDateRequired(b Body) *models.FieldError {
	published, ok := b.Bool("isPublished")
	if !ok || !published {
		return nil
	}
	if !isFalsy(b["publishDate"]) {
		return nil
	}
	fe := FieldError("publishDate", b.String("publishDate"), "Publish date is required when the post is published.")
	return &fe
}

// CreatePost checks a new post. isPublished is mandatory.
var CreatePost = NewSchema("create-post",
	title(),
	Field("subheader").Optional().Trim().Escape(),
	postBody(),
	Field("isPublished").Boolean("isPublished must be a boolean."),
	Field("publishDate").OptionalFalsy().Date("Publish date must be a valid date."),
	categories(),
).With(publishDateRequired)

// UpdatePost checks a partial post update; absent fields keep their stored value.
var UpdatePost = NewSchema("update-post",
	title().Optional(),
	Field("subheader").Optional().Trim().Escape(),
	postBody().Optional(),
	Field("isPublished").Optional().Boolean("isPublished must be a boolean."),
	Field("publishDate").OptionalFalsy().Date("Publish date must be a valid date."),
	Field("editDate").OptionalFalsy().Date("Edit date must be a valid date."),
	categories(),
).With(publishDateRequired)

// Comment checks a comment body on create and update.
var Comment = NewSchema("comment",
	Field("body").Trim().
		Required("Comment body is required").
		MaxLength(MaxCommentLength, "Comment must not exceed 550 characters.").
		Escape(),
)

// Category checks a category name on create and update.
var Category = NewSchema("category",
	Field("name").Trim().Required("Category name is required.").Escape(),
)
