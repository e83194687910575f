package database

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/learnifyhq/learnify/core/user"
)

type userRepository struct {
	db *DB
}

var _ user.Repository = (*userRepository)(nil) // interface compliance check

func NewUserRepository(db *DB) *userRepository {
	return &userRepository{db: db}
}

func (repo userRepository) coll() *mongo.Collection {
	return repo.db.collection(usersColl)
}

// trapNoDocsErr maps mongo "no documents" err to user.ErrNotFound
func (repo userRepository) trapNoDocsErr(err error, msg string) error {
	if err == mongo.ErrNoDocuments {
		return user.ErrNotFound
	}
	return errors.Wrap(err, msg)
}

func (repo userRepository) decode(ctx context.Context, cur *mongo.Cursor, msg string) ([]user.User, error) {
	users := make([]user.User, 0)
	if err := cur.All(ctx, &users); err != nil {
		return nil, errors.Wrap(err, msg)
	}
	return users, nil
}

func (repo userRepository) CreateUser(ctx context.Context, usr user.User) (user.User, error) {
	usr.ID = primitive.NewObjectID().Hex()
	if _, err := repo.coll().InsertOne(ctx, usr); err != nil {
		if isDupKeyErr(err) {
			return user.User{}, user.ErrUserExists
		}
		return user.User{}, errors.Wrap(err, "inserting user")
	}
	return usr, nil
}

func (repo userRepository) QueryAllUsers(ctx context.Context) ([]user.User, error) {
	cur, err := repo.coll().Find(ctx, bson.M{})
	if err != nil {
		return nil, errors.Wrap(err, "querying users")
	}
	return repo.decode(ctx, cur, "querying users")
}

func (repo userRepository) GetUserByID(ctx context.Context, id string) (user.User, error) {
	var usr user.User
	if err := repo.coll().FindOne(ctx, bson.M{"_id": id}).Decode(&usr); err != nil {
		return user.User{}, repo.trapNoDocsErr(err, "getting user by id")
	}
	return usr, nil
}

func (repo userRepository) GetUserByUID(ctx context.Context, uid string) (user.User, error) {
	var usr user.User
	if err := repo.coll().FindOne(ctx, bson.M{"uid": uid}).Decode(&usr); err != nil {
		return user.User{}, repo.trapNoDocsErr(err, "getting user by uid")
	}
	return usr, nil
}

func (repo userRepository) FilterUsersByEmail(ctx context.Context, email string) ([]user.User, error) {
	cur, err := repo.coll().Find(ctx, bson.M{"email": email})
	if err != nil {
		return nil, errors.Wrap(err, "filtering users by email")
	}
	return repo.decode(ctx, cur, "filtering users by email")
}

func (repo userRepository) SearchUsers(ctx context.Context, term string) ([]user.User, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"name": primitive.Regex{Pattern: term, Options: "i"}},
		bson.M{"email": primitive.Regex{Pattern: term, Options: "i"}},
	}}
	cur, err := repo.coll().Find(ctx, filter)
	if err != nil {
		return nil, errors.Wrap(err, "searching users")
	}
	return repo.decode(ctx, cur, "searching users")
}

func (repo userRepository) SetUserRoleByID(ctx context.Context, id, role string) error {
	res, err := repo.coll().UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"role": role}})
	if err != nil {
		return errors.Wrap(err, "setting user role")
	}
	if res.ModifiedCount == 0 {
		return user.ErrNotFound
	}
	return nil
}

func (repo userRepository) SetUserRoleByEmail(ctx context.Context, email, role string) error {
	res, err := repo.coll().UpdateOne(ctx, bson.M{"email": email}, bson.M{"$set": bson.M{"role": role}})
	if err != nil {
		return errors.Wrap(err, "setting user role by email")
	}
	if res.ModifiedCount == 0 {
		return user.ErrNotFound
	}
	return nil
}
