package repository

import (
	"context"
	"errors"

	"cloud.google.com/go/firestore"

	a "storefront-backend/internal/domains/address"
	"storefront-backend/internal/domains/address/model"
)

type firestoreDocument struct {
	ID        string          `firestore:"id"`
	Addresses []model.Address `firestore:"addresses"`
	Revision  int64           `firestore:"addressRevision"`
}

type firestoreRepository struct {
	client *firestore.Client
}

func NewFirestoreRepository(client *firestore.Client) a.Repository {
	return &firestoreRepository{client: client}
}

func (r *firestoreRepository) users() *firestore.CollectionRef {
	return r.client.Collection(UsersCollection)
}

// FindByUserID query theo field "id", document ID của Firestore chỉ dùng làm Key
func (r *firestoreRepository) FindByUserID(ctx context.Context, userID string) (*model.AddressBook, error) {
	snaps, err := r.users().Where("id", "==", userID).Limit(1).Documents(ctx).GetAll()
	if err != nil {
		return nil, a.NewReadFailed(err)
	}
	if len(snaps) == 0 {
		return nil, a.NewUserNotFound(userID)
	}

	var doc firestoreDocument
	if err := snaps[0].DataTo(&doc); err != nil {
		return nil, a.NewReadFailed(err)
	}

	return &model.AddressBook{
		Key:       snaps[0].Ref.ID,
		UserID:    userID,
		Addresses: nonNil(doc.Addresses),
		Revision:  doc.Revision,
	}, nil
}

// SaveAddresses đọc lại revision trong transaction rồi mới Update
func (r *firestoreRepository) SaveAddresses(ctx context.Context, book *model.AddressBook, addresses []model.Address) error {
	ref := r.users().Doc(book.Key)

	err := r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			return err
		}

		var current firestoreDocument
		if err := snap.DataTo(&current); err != nil {
			return err
		}
		if current.Revision != book.Revision {
			return a.NewConflict(book.UserID, book.Revision)
		}

		return tx.Update(ref, []firestore.Update{
			{Path: "addresses", Value: nonNil(addresses)},
			{Path: "addressRevision", Value: firestore.Increment(1)},
		})
	})
	if err != nil {
		var addrErr *a.AddressError
		if errors.As(err, &addrErr) {
			return err
		}
		return a.NewWriteFailed(err)
	}

	book.Addresses = addresses
	book.Revision++
	return nil
}

// ListUserIDs không lọc được "mảng không rỗng" trên Firestore nên trả về mọi user
func (r *firestoreRepository) ListUserIDs(ctx context.Context, after string, limit int) ([]string, error) {
	snaps, err := r.users().
		Where("id", ">", after).
		OrderBy("id", firestore.Asc).
		Limit(limit).
		Documents(ctx).GetAll()
	if err != nil {
		return nil, a.NewReadFailed(err)
	}

	ids := make([]string, 0, len(snaps))
	for _, snap := range snaps {
		var doc firestoreDocument
		if err := snap.DataTo(&doc); err != nil {
			return nil, a.NewReadFailed(err)
		}
		ids = append(ids, doc.ID)
	}
	return ids, nil
}

func (r *firestoreRepository) Ping(ctx context.Context) error {
	_, err := r.users().Limit(1).Documents(ctx).GetAll()
	return err
}
