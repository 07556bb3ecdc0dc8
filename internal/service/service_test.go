package service

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/mmeshcher/marketplace-system/internal/model"
	"github.com/mmeshcher/marketplace-system/internal/repository"
)

type stubRepo struct {
	createUserID   int64
	createUserErr  error
	createdHash    []byte
	createdEmail   string
	createdName    string
	userByEmail    *model.User
	userByEmailErr error
	lookedUpEmail  string
	userByID       *model.User
	userByIDErr    error
	updatedUser    *model.User
	updateErr      error

	category      *model.Category
	categoryErr   error
	categories    []model.Category
	categoriesErr error

	createProductID  int64
	createProductErr error
	createdProduct   *model.Product
	product          *model.ProductCard
	productErr       error
	products         []model.ProductCard
	productsErr      error
	updatedProduct   *model.ProductCard
	productUpdateErr error
	recordedUpdate   repository.ProductUpdate
	deleteErr        error
	deleteCalls      int

	addCartErr    error
	addCartCalls  int
	removeErr     error
	removeCalls   int
	cartItems     []model.CartItem
	cartItemsErr  error
	order         *model.Order
	orderErr      error
	buyerOrders   []model.Order
	buyerOrderErr error
}

func (s *stubRepo) Close() error { return nil }

func (s *stubRepo) CreateUser(_ context.Context, username, email string, passwordHash []byte) (int64, error) {
	s.createdName = username
	s.createdEmail = email
	s.createdHash = passwordHash
	return s.createUserID, s.createUserErr
}

func (s *stubRepo) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	s.lookedUpEmail = email
	return s.userByEmail, s.userByEmailErr
}

func (s *stubRepo) GetUserByID(_ context.Context, _ int64) (*model.User, error) {
	return s.userByID, s.userByIDErr
}

func (s *stubRepo) UpdateUserProfile(_ context.Context, _ int64, _, _ *string) (*model.User, error) {
	return s.updatedUser, s.updateErr
}

func (s *stubRepo) CreateCategory(_ context.Context, _, _ string) (*model.Category, error) {
	return s.category, s.categoryErr
}

func (s *stubRepo) GetCategories(_ context.Context) ([]model.Category, error) {
	return s.categories, s.categoriesErr
}

func (s *stubRepo) CreateProduct(_ context.Context, p *model.Product) (int64, error) {
	s.createdProduct = p
	return s.createProductID, s.createProductErr
}

func (s *stubRepo) GetProducts(_ context.Context, _ repository.ProductFilter) ([]model.ProductCard, error) {
	return s.products, s.productsErr
}

func (s *stubRepo) GetProductByID(_ context.Context, _ int64) (*model.ProductCard, error) {
	return s.product, s.productErr
}

func (s *stubRepo) GetProductsBySeller(_ context.Context, _ int64) ([]model.ProductCard, error) {
	return s.products, s.productsErr
}

func (s *stubRepo) UpdateProduct(_ context.Context, _ int64, upd repository.ProductUpdate) (*model.ProductCard, error) {
	s.recordedUpdate = upd
	return s.updatedProduct, s.productUpdateErr
}

func (s *stubRepo) DeleteProduct(_ context.Context, _ int64) error {
	s.deleteCalls++
	return s.deleteErr
}

func (s *stubRepo) AddCartItem(_ context.Context, _, _ int64) error {
	s.addCartCalls++
	return s.addCartErr
}

func (s *stubRepo) RemoveCartItem(_ context.Context, _, _ int64) error {
	s.removeCalls++
	return s.removeErr
}

func (s *stubRepo) GetCartItems(_ context.Context, _ int64) ([]model.CartItem, error) {
	return s.cartItems, s.cartItemsErr
}

func (s *stubRepo) CreateOrder(_ context.Context, _ int64) (*model.Order, error) {
	return s.order, s.orderErr
}

func (s *stubRepo) GetOrdersByBuyer(_ context.Context, _ int64) ([]model.Order, error) {
	return s.buyerOrders, s.buyerOrderErr
}

func availableProduct(sellerID int64) *model.ProductCard {
	return &model.ProductCard{
		Product: model.Product{
			ID:         7,
			Title:      "Vintage lamp",
			PriceCents: 2000,
			SellerID:   sellerID,
			Status:     model.ProductStatusAvailable,
		},
		SellerUsername: "seller",
	}
}

func TestSignupUser_Validation(t *testing.T) {
	tests := []struct {
		name     string
		username string
		email    string
		password string
	}{
		{
			name:     "missing fields",
			username: "",
			email:    "buyer@example.com",
			password: "Str0ng!pass",
		},
		{
			name:     "invalid email",
			username: "buyer",
			email:    "not-an-email",
			password: "Str0ng!pass",
		},
		{
			name:     "weak password",
			username: "buyer",
			email:    "buyer@example.com",
			password: "weak",
		},
		{
			name:     "non-alphanumeric username",
			username: "buy er",
			email:    "buyer@example.com",
			password: "Str0ng!pass",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &stubRepo{}
			svc := NewService(repo)

			_, err := svc.SignupUser(context.Background(), tt.username, tt.email, tt.password)

			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("error = %v, want ValidationError", err)
			}
			if repo.createdHash != nil {
				t.Fatalf("user must not be created on invalid input")
			}
		})
	}
}

func TestSignupUser_HashesPassword(t *testing.T) {
	repo := &stubRepo{
		createUserID: 1,
		userByID:     &model.User{ID: 1, Username: "buyer", Email: "buyer@example.com"},
	}
	svc := NewService(repo)

	u, err := svc.SignupUser(context.Background(), "buyer", "buyer@example.com", "Str0ng!pass")
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if u.ID != 1 {
		t.Fatalf("user id = %d, want 1", u.ID)
	}

	if string(repo.createdHash) == "Str0ng!pass" {
		t.Fatalf("password stored in plain text")
	}
	if err := bcrypt.CompareHashAndPassword(repo.createdHash, []byte("Str0ng!pass")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
}

func TestSignupUser_LowercasesEmail(t *testing.T) {
	repo := &stubRepo{
		createUserID: 1,
		userByID:     &model.User{ID: 1, Username: "buyer", Email: "buyer@example.com"},
	}
	svc := NewService(repo)

	_, err := svc.SignupUser(context.Background(), "buyer", "Buyer@Example.COM", "Str0ng!pass")
	if err != nil {
		t.Fatalf("signup: %v", err)
	}

	if repo.createdEmail != "buyer@example.com" {
		t.Fatalf("stored email = %q, want lowercased %q", repo.createdEmail, "buyer@example.com")
	}
}

func TestAuthenticateUser(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("Str0ng!pass"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	user := &model.User{ID: 1, Email: "buyer@example.com", PasswordHash: hash}

	t.Run("unknown email", func(t *testing.T) {
		svc := NewService(&stubRepo{userByEmailErr: repository.ErrUserNotFound})

		_, err := svc.AuthenticateUser(context.Background(), "nobody@example.com", "Str0ng!pass")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("error = %v, want ErrInvalidCredentials", err)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		svc := NewService(&stubRepo{userByEmail: user})

		_, err := svc.AuthenticateUser(context.Background(), "buyer@example.com", "Wrong!pass1")
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Fatalf("error = %v, want ErrInvalidCredentials", err)
		}
	})

	t.Run("success", func(t *testing.T) {
		svc := NewService(&stubRepo{userByEmail: user})

		got, err := svc.AuthenticateUser(context.Background(), "buyer@example.com", "Str0ng!pass")
		if err != nil {
			t.Fatalf("authenticate: %v", err)
		}
		if got.ID != 1 {
			t.Fatalf("user id = %d, want 1", got.ID)
		}
	})

	t.Run("mixed-case email", func(t *testing.T) {
		repo := &stubRepo{userByEmail: user}
		svc := NewService(repo)

		_, err := svc.AuthenticateUser(context.Background(), "Buyer@Example.COM", "Str0ng!pass")
		if err != nil {
			t.Fatalf("authenticate: %v", err)
		}
		if repo.lookedUpEmail != "buyer@example.com" {
			t.Fatalf("looked up email = %q, want lowercased %q", repo.lookedUpEmail, "buyer@example.com")
		}
	})
}

func TestAddToCart_Rules(t *testing.T) {
	t.Run("product not found", func(t *testing.T) {
		svc := NewService(&stubRepo{productErr: repository.ErrProductNotFound})

		_, err := svc.AddToCart(context.Background(), 1, 7)
		if !errors.Is(err, repository.ErrProductNotFound) {
			t.Fatalf("error = %v, want ErrProductNotFound", err)
		}
	})

	t.Run("sold product", func(t *testing.T) {
		p := availableProduct(2)
		p.Status = model.ProductStatusSold
		repo := &stubRepo{product: p}
		svc := NewService(repo)

		_, err := svc.AddToCart(context.Background(), 1, 7)
		if !errors.Is(err, ErrProductSold) {
			t.Fatalf("error = %v, want ErrProductSold", err)
		}
		if repo.addCartCalls != 0 {
			t.Fatalf("cart must not be touched for a sold product")
		}
	})

	t.Run("own product", func(t *testing.T) {
		repo := &stubRepo{product: availableProduct(1)}
		svc := NewService(repo)

		_, err := svc.AddToCart(context.Background(), 1, 7)
		if !errors.Is(err, ErrOwnProduct) {
			t.Fatalf("error = %v, want ErrOwnProduct", err)
		}
	})

	t.Run("duplicate", func(t *testing.T) {
		repo := &stubRepo{
			product:    availableProduct(2),
			addCartErr: repository.ErrProductAlreadyInCart,
		}
		svc := NewService(repo)

		_, err := svc.AddToCart(context.Background(), 1, 7)
		if !errors.Is(err, repository.ErrProductAlreadyInCart) {
			t.Fatalf("error = %v, want ErrProductAlreadyInCart", err)
		}
	})

	t.Run("success returns cart", func(t *testing.T) {
		p := availableProduct(2)
		repo := &stubRepo{
			product:   p,
			cartItems: []model.CartItem{{Product: *p}},
		}
		svc := NewService(repo)

		items, err := svc.AddToCart(context.Background(), 1, 7)
		if err != nil {
			t.Fatalf("add to cart: %v", err)
		}
		if len(items) != 1 || items[0].Product.ID != 7 {
			t.Fatalf("unexpected cart contents: %+v", items)
		}
		if repo.addCartCalls != 1 {
			t.Fatalf("AddCartItem calls = %d, want 1", repo.addCartCalls)
		}
	})
}

func TestRemoveFromCart_Idempotent(t *testing.T) {
	repo := &stubRepo{}
	svc := NewService(repo)

	first, err := svc.RemoveFromCart(context.Background(), 1, 7)
	if err != nil {
		t.Fatalf("first remove: %v", err)
	}

	second, err := svc.RemoveFromCart(context.Background(), 1, 7)
	if err != nil {
		t.Fatalf("second remove: %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("cart after repeated remove differs: %d vs %d", len(first), len(second))
	}
	if repo.removeCalls != 2 {
		t.Fatalf("RemoveCartItem calls = %d, want 2", repo.removeCalls)
	}
}

func TestCreateProduct(t *testing.T) {
	t.Run("missing fields", func(t *testing.T) {
		svc := NewService(&stubRepo{})

		_, err := svc.CreateProduct(context.Background(), 1, ProductInput{Title: "Lamp"})

		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("error = %v, want ValidationError", err)
		}
	})

	t.Run("negative price", func(t *testing.T) {
		svc := NewService(&stubRepo{})

		_, err := svc.CreateProduct(context.Background(), 1, ProductInput{
			Title:       "Lamp",
			Description: "Old lamp",
			Price:       -5,
			CategoryID:  3,
		})

		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("error = %v, want ValidationError", err)
		}
	})

	t.Run("defaults images and converts price", func(t *testing.T) {
		repo := &stubRepo{createProductID: 7, product: availableProduct(1)}
		svc := NewService(repo)

		_, err := svc.CreateProduct(context.Background(), 1, ProductInput{
			Title:       "Lamp",
			Description: "Old lamp",
			Price:       19.99,
			CategoryID:  3,
		})
		if err != nil {
			t.Fatalf("create product: %v", err)
		}

		if len(repo.createdProduct.Images) != 1 || repo.createdProduct.Images[0] != model.DefaultProductImage {
			t.Fatalf("images = %v, want default placeholder", repo.createdProduct.Images)
		}
		if repo.createdProduct.PriceCents != 1999 {
			t.Fatalf("price cents = %d, want 1999", repo.createdProduct.PriceCents)
		}
		if repo.createdProduct.Status != model.ProductStatusAvailable {
			t.Fatalf("status = %q, want Available", repo.createdProduct.Status)
		}
	})
}

func TestUpdateProduct_Guards(t *testing.T) {
	t.Run("not the seller", func(t *testing.T) {
		svc := NewService(&stubRepo{product: availableProduct(2)})

		_, err := svc.UpdateProduct(context.Background(), 1, 7, ProductPatch{})
		if !errors.Is(err, ErrNotSeller) {
			t.Fatalf("error = %v, want ErrNotSeller", err)
		}
	})

	t.Run("sold product is immutable", func(t *testing.T) {
		p := availableProduct(1)
		p.Status = model.ProductStatusSold
		svc := NewService(&stubRepo{product: p})

		_, err := svc.UpdateProduct(context.Background(), 1, 7, ProductPatch{})
		if !errors.Is(err, ErrProductSoldImmutable) {
			t.Fatalf("error = %v, want ErrProductSoldImmutable", err)
		}
	})

	t.Run("converts patched price to cents", func(t *testing.T) {
		repo := &stubRepo{product: availableProduct(1), updatedProduct: availableProduct(1)}
		svc := NewService(repo)

		price := 12.5
		_, err := svc.UpdateProduct(context.Background(), 1, 7, ProductPatch{Price: &price})
		if err != nil {
			t.Fatalf("update product: %v", err)
		}
		if repo.recordedUpdate.PriceCents == nil || *repo.recordedUpdate.PriceCents != 1250 {
			t.Fatalf("patched price cents = %v, want 1250", repo.recordedUpdate.PriceCents)
		}
	})
}

func TestDeleteProduct_Guards(t *testing.T) {
	t.Run("not the seller", func(t *testing.T) {
		repo := &stubRepo{product: availableProduct(2)}
		svc := NewService(repo)

		err := svc.DeleteProduct(context.Background(), 1, 7)
		if !errors.Is(err, ErrNotSeller) {
			t.Fatalf("error = %v, want ErrNotSeller", err)
		}
		if repo.deleteCalls != 0 {
			t.Fatalf("product must not be deleted by a non-seller")
		}
	})

	t.Run("sold product is not deletable", func(t *testing.T) {
		p := availableProduct(1)
		p.Status = model.ProductStatusSold
		repo := &stubRepo{product: p}
		svc := NewService(repo)

		err := svc.DeleteProduct(context.Background(), 1, 7)
		if !errors.Is(err, ErrProductSoldImmutable) {
			t.Fatalf("error = %v, want ErrProductSoldImmutable", err)
		}
		if repo.deleteCalls != 0 {
			t.Fatalf("sold product must not be deleted")
		}
	})

	t.Run("seller deletes available product", func(t *testing.T) {
		repo := &stubRepo{product: availableProduct(1)}
		svc := NewService(repo)

		if err := svc.DeleteProduct(context.Background(), 1, 7); err != nil {
			t.Fatalf("delete product: %v", err)
		}
		if repo.deleteCalls != 1 {
			t.Fatalf("DeleteProduct calls = %d, want 1", repo.deleteCalls)
		}
	})
}

func TestCreateCategory_RequiresName(t *testing.T) {
	svc := NewService(&stubRepo{})

	_, err := svc.CreateCategory(context.Background(), "", "misc")

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("error = %v, want ValidationError", err)
	}
}

func TestUpdateProfile_Validation(t *testing.T) {
	svc := NewService(&stubRepo{})

	t.Run("nothing to update", func(t *testing.T) {
		_, err := svc.UpdateProfile(context.Background(), 1, nil, nil)

		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("error = %v, want ValidationError", err)
		}
	})

	t.Run("invalid username", func(t *testing.T) {
		bad := "no spaces allowed"
		_, err := svc.UpdateProfile(context.Background(), 1, &bad, nil)

		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("error = %v, want ValidationError", err)
		}
	})
}
