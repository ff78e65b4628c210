package content

import (
	"context"
	"strings"

	"github.com/dwoolworth/inkwell"
	"github.com/dwoolworth/inkwell/auth"
	"github.com/dwoolworth/inkwell/models"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// Users is the accounts repository. It satisfies auth.UserStore.
type Users struct {
	store *inkwell.Store
}

var _ auth.UserStore = (*Users)(nil)

// NewUsers returns the accounts repository.
func NewUsers(store *inkwell.Store) *Users {
	return &Users{store: store}
}

// Create adds an account from the admin dashboard. The password is optional;
// an account without one cannot sign in until it is reset.
func (u *Users) Create(ctx context.Context, in UserInput) (bson.ObjectID, error) {
	in.Email = normalizeEmail(in.Email)
	if err := inkwell.CheckInput(in); err != nil {
		return bson.NilObjectID, err
	}
	return u.CreateUser(ctx, &models.User{
		Email:       in.Email,
		Role:        in.Role,
		FirstName:   strings.TrimSpace(in.FirstName),
		LastName:    strings.TrimSpace(in.LastName),
		PhoneNumber: in.PhoneNumber,
		Image:       in.Image,
	}, in.Password)
}

// CreateUser stores user, hashing password when one is given. The email
// address must not already be taken.
func (u *Users) CreateUser(ctx context.Context, user *models.User, password string) (bson.ObjectID, error) {
	user.Email = normalizeEmail(user.Email)
	if password != "" {
		hash, err := auth.HashPassword(password)
		if err != nil {
			return bson.NilObjectID, fail(err, "Failed to create user")
		}
		user.Password = hash
	}

	id, err := u.store.Insert(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return bson.NilObjectID, &inkwell.Error{
				Kind:    inkwell.KindConflict,
				Message: "A user with this email already exists",
				Err:     err,
			}
		}
		return bson.NilObjectID, fail(err, "Failed to create user")
	}
	return id, nil
}

// GetByID returns the account, or nil if it does not exist.
func (u *Users) GetByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := inkwell.ParseID(id)
	if err != nil {
		return nil, err
	}
	return u.findOne(ctx, bson.D{{Key: "_id", Value: oid}})
}

// GetByEmail returns the account registered under email, or nil.
func (u *Users) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return u.findOne(ctx, bson.D{{Key: "email", Value: normalizeEmail(email)}})
}

func (u *Users) findOne(ctx context.Context, filter bson.D) (*models.User, error) {
	var user models.User
	if err := u.store.FindOne(ctx, filter, &user); err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fail(err, "Failed to fetch user")
	}
	return &user, nil
}

// List returns every account, newest first.
func (u *Users) List(ctx context.Context) ([]models.User, error) {
	var out []models.User
	err := u.store.Find(ctx, bson.D{}, &out, inkwell.FindOptions{
		Sort: bson.D{{Key: "createdAt", Value: -1}},
	})
	if err != nil {
		return nil, fail(err, "Failed to fetch users")
	}
	if out == nil {
		out = []models.User{}
	}
	return out, nil
}

// Update edits profile fields and the role.
func (u *Users) Update(ctx context.Context, id string, patch UserPatch) error {
	oid, err := inkwell.ParseID(id)
	if err != nil {
		return err
	}
	if err := inkwell.CheckInput(patch); err != nil {
		return err
	}
	res, err := u.store.UpdateByID(ctx, &models.User{}, oid, patch.set())
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return &inkwell.Error{Kind: inkwell.KindConflict, Message: "A user with this email already exists", Err: err}
		}
		return fail(err, "Failed to update user")
	}
	if res.ModifiedCount == 0 {
		return notFound("User not found or no changes made")
	}
	return nil
}

// Delete removes the account. Articles and comments it authored are kept and
// drop out of joined views.
func (u *Users) Delete(ctx context.Context, id string) error {
	oid, err := inkwell.ParseID(id)
	if err != nil {
		return err
	}
	n, err := u.store.DeleteByID(ctx, &models.User{}, oid)
	if err != nil {
		return fail(err, "Failed to delete user")
	}
	if n == 0 {
		return notFound("User not found or already deleted")
	}
	return nil
}

// EnsureRole gives an account without a role the User role and returns the
// role it ends up with.
func (u *Users) EnsureRole(ctx context.Context, id bson.ObjectID) (models.Role, error) {
	var user models.User
	if err := u.store.FindByID(ctx, id, &user); err != nil {
		if isNotFound(err) {
			return "", notFound("User not found")
		}
		return "", fail(err, "Failed to fetch user")
	}
	if user.Role != "" {
		return user.Role, nil
	}
	if _, err := u.store.UpdateByID(ctx, &user, id, bson.D{{Key: "role", Value: models.RoleUser}}); err != nil {
		return "", fail(err, "Failed to update user")
	}
	return models.RoleUser, nil
}

// MarkEmailVerified stamps the account's emailVerified time.
func (u *Users) MarkEmailVerified(ctx context.Context, id bson.ObjectID) error {
	return u.setField(ctx, id, "emailVerified", inkwell.Now())
}

// SetPassword replaces the stored password hash.
func (u *Users) SetPassword(ctx context.Context, id bson.ObjectID, hash string) error {
	return u.setField(ctx, id, "password", hash)
}

func (u *Users) setField(ctx context.Context, id bson.ObjectID, key string, value interface{}) error {
	res, err := u.store.UpdateByID(ctx, &models.User{}, id, bson.D{{Key: key, Value: value}})
	if err != nil {
		return fail(err, "Failed to update user")
	}
	if res.MatchedCount == 0 {
		return notFound("User not found")
	}
	return nil
}
