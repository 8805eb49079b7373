package usecase

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"renaix/internal/domain/entity"
	"renaix/pkg/errors"
)

// In-memory repositories backing the usecase tests. Each guards its state
// with a mutex so the concurrency tests exercise the same compare-and-swap
// semantics the real store provides.

type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*entity.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[string]*entity.User{}}
}

func (r *memUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *memUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, errors.NotFound("User", nil)
	}
	clone := *user
	return &clone, nil
}

func (r *memUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, errors.NotFound("User", nil)
}

func (r *memUserRepo) Update(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return errors.NotFound("User", nil)
	}
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

type memProductRepo struct {
	mu       sync.Mutex
	products map[string]*entity.Product
}

func newMemProductRepo() *memProductRepo {
	return &memProductRepo{products: map[string]*entity.Product{}}
}

func (r *memProductRepo) Create(ctx context.Context, product *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	clone := *product
	r.products[product.ID] = &clone
	return nil
}

func (r *memProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	product, ok := r.products[id]
	if !ok {
		return nil, errors.NotFound("Product", nil)
	}
	clone := *product
	return &clone, nil
}

func (r *memProductRepo) Update(ctx context.Context, product *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[product.ID]; !ok {
		return errors.NotFound("Product", nil)
	}
	clone := *product
	r.products[product.ID] = &clone
	return nil
}

func (r *memProductRepo) List(ctx context.Context, filter map[string]interface{}, sortBy string, limit, offset int) ([]*entity.Product, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []*entity.Product
	for _, product := range r.products {
		if matchProductFilter(product, filter) {
			clone := *product
			matched = append(matched, &clone)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })
	return paginateProducts(matched, limit, offset)
}

func (r *memProductRepo) ListBySellerID(ctx context.Context, sellerID string, state entity.SaleState, limit, offset int) ([]*entity.Product, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []*entity.Product
	for _, product := range r.products {
		if product.SellerID != sellerID {
			continue
		}
		if state != "" && product.SaleState != state {
			continue
		}
		clone := *product
		matched = append(matched, &clone)
	}
	return paginateProducts(matched, limit, offset)
}

func (r *memProductRepo) SearchByTitle(ctx context.Context, query string, filter map[string]interface{}, limit, offset int) ([]*entity.Product, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []*entity.Product
	for _, product := range r.products {
		if !strings.Contains(strings.ToLower(product.Title), strings.ToLower(query)) {
			continue
		}
		if matchProductFilter(product, filter) {
			clone := *product
			matched = append(matched, &clone)
		}
	}
	return paginateProducts(matched, limit, offset)
}

func (r *memProductRepo) UpdateSaleState(ctx context.Context, id string, from []entity.SaleState, to entity.SaleState, extra func(*entity.Product)) (*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	product, ok := r.products[id]
	if !ok {
		return nil, errors.NotFound("Product", nil)
	}
	allowed := false
	for _, state := range from {
		if product.SaleState == state {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, errors.InvalidTransition(fmt.Sprintf("Cannot move product from %s to %s", product.SaleState, to))
	}
	product.SaleState = to
	product.UpdatedAt = time.Now()
	if extra != nil {
		extra(product)
	}
	clone := *product
	return &clone, nil
}

func matchProductFilter(product *entity.Product, filter map[string]interface{}) bool {
	if states, ok := filter["saleStates"].([]entity.SaleState); ok {
		found := false
		for _, state := range states {
			if product.SaleState == state {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if categoryID, ok := filter["categoryId"].(string); ok && product.CategoryID != categoryID {
		return false
	}
	if condition, ok := filter["condition"].(entity.Condition); ok && product.Condition != condition {
		return false
	}
	if minPrice, ok := filter["minPrice"].(float64); ok && product.Price < minPrice {
		return false
	}
	if maxPrice, ok := filter["maxPrice"].(float64); ok && product.Price > maxPrice {
		return false
	}
	if location, ok := filter["location"].(string); ok && product.Location != location {
		return false
	}
	return true
}

func paginateProducts(products []*entity.Product, limit, offset int) ([]*entity.Product, int64, error) {
	total := int64(len(products))
	if offset >= len(products) {
		return nil, total, nil
	}
	products = products[offset:]
	if limit > 0 && limit < len(products) {
		products = products[:limit]
	}
	return products, total, nil
}

type memPurchaseRepo struct {
	mu        sync.Mutex
	purchases map[string]*entity.Purchase
	logs      []*entity.PurchaseLog
}

func newMemPurchaseRepo() *memPurchaseRepo {
	return &memPurchaseRepo{purchases: map[string]*entity.Purchase{}}
}

func (r *memPurchaseRepo) Create(ctx context.Context, purchase *entity.Purchase) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if purchase.ID == "" {
		purchase.ID = uuid.New().String()
	}
	clone := *purchase
	r.purchases[purchase.ID] = &clone
	return nil
}

func (r *memPurchaseRepo) GetByID(ctx context.Context, id string) (*entity.Purchase, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	purchase, ok := r.purchases[id]
	if !ok {
		return nil, errors.NotFound("Purchase", nil)
	}
	clone := *purchase
	return &clone, nil
}

func (r *memPurchaseRepo) GetByCode(ctx context.Context, code string) (*entity.Purchase, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, purchase := range r.purchases {
		if purchase.Code == code {
			clone := *purchase
			return &clone, nil
		}
	}
	return nil, errors.NotFound("Purchase", nil)
}

func (r *memPurchaseRepo) UpdateState(ctx context.Context, purchase *entity.Purchase, from entity.PurchaseState) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.purchases[purchase.ID]
	if !ok {
		return errors.NotFound("Purchase", nil)
	}
	if stored.State != from {
		return errors.InvalidTransition(fmt.Sprintf("Purchase is %s, expected %s", stored.State, from))
	}
	clone := *purchase
	r.purchases[purchase.ID] = &clone
	return nil
}

func (r *memPurchaseRepo) GetActiveByProductID(ctx context.Context, productID string) (*entity.Purchase, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, purchase := range r.purchases {
		if purchase.ProductID == productID && purchase.State.Active() {
			clone := *purchase
			return &clone, nil
		}
	}
	return nil, errors.NotFound("Purchase", nil)
}

func (r *memPurchaseRepo) HasAnyForProduct(ctx context.Context, productID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, purchase := range r.purchases {
		if purchase.ProductID == productID {
			return true, nil
		}
	}
	return false, nil
}

func (r *memPurchaseRepo) ListByUserID(ctx context.Context, userID string, role string, state entity.PurchaseState, limit, offset int) ([]*entity.Purchase, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []*entity.Purchase
	for _, purchase := range r.purchases {
		if role == "buyer" && purchase.BuyerID != userID {
			continue
		}
		if role == "seller" && purchase.SellerID != userID {
			continue
		}
		if state != "" && purchase.State != state {
			continue
		}
		clone := *purchase
		matched = append(matched, &clone)
	}
	total := int64(len(matched))
	if offset >= len(matched) {
		return nil, total, nil
	}
	matched = matched[offset:]
	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, total, nil
}

func (r *memPurchaseRepo) CreateLog(ctx context.Context, log *entity.PurchaseLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if log.ID == "" {
		log.ID = uuid.New().String()
	}
	clone := *log
	r.logs = append(r.logs, &clone)
	return nil
}

func (r *memPurchaseRepo) ListLogsByPurchaseID(ctx context.Context, purchaseID string) ([]*entity.PurchaseLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []*entity.PurchaseLog
	for _, log := range r.logs {
		if log.PurchaseID == purchaseID {
			clone := *log
			matched = append(matched, &clone)
		}
	}
	return matched, nil
}

type memMessageRepo struct {
	mu       sync.Mutex
	messages map[string]*entity.Message
	lastAt   map[string]time.Time
}

func newMemMessageRepo() *memMessageRepo {
	return &memMessageRepo{
		messages: map[string]*entity.Message{},
		lastAt:   map[string]time.Time{},
	}
}

func (r *memMessageRepo) Create(ctx context.Context, message *entity.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if message.ID == "" {
		message.ID = uuid.New().String()
	}
	// Per-thread monotonic timestamps.
	if last, ok := r.lastAt[message.ThreadKey]; ok && !message.CreatedAt.After(last) {
		message.CreatedAt = last.Add(time.Millisecond)
	}
	r.lastAt[message.ThreadKey] = message.CreatedAt
	clone := *message
	r.messages[message.ID] = &clone
	return nil
}

func (r *memMessageRepo) GetByID(ctx context.Context, id string) (*entity.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	message, ok := r.messages[id]
	if !ok {
		return nil, errors.NotFound("Message", nil)
	}
	clone := *message
	return &clone, nil
}

func (r *memMessageRepo) ListByThread(ctx context.Context, threadKey string, limit, offset int) ([]*entity.Message, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []*entity.Message
	for _, message := range r.messages {
		if message.ThreadKey == threadKey {
			clone := *message
			matched = append(matched, &clone)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].CreatedAt.Before(matched[j].CreatedAt) })
	total := int64(len(matched))
	if offset >= len(matched) {
		return nil, total, nil
	}
	matched = matched[offset:]
	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, total, nil
}

func (r *memMessageRepo) ListThreads(ctx context.Context, userID string, limit, offset int) ([]*entity.Thread, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	threads := map[string]*entity.Thread{}
	for _, message := range r.messages {
		if message.SenderID != userID && message.RecipientID != userID {
			continue
		}
		thread, ok := threads[message.ThreadKey]
		if !ok {
			thread = &entity.Thread{
				Key:          message.ThreadKey,
				Participants: []string{message.SenderID, message.RecipientID},
				ProductID:    message.ProductID,
			}
			threads[message.ThreadKey] = thread
		}
		if message.CreatedAt.After(thread.LastMessageAt) {
			thread.LastMessageAt = message.CreatedAt
			thread.LastMessage = message.Body
		}
		if message.RecipientID == userID && !message.Read {
			thread.Unread++
		}
	}
	var list []*entity.Thread
	for _, thread := range threads {
		list = append(list, thread)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].LastMessageAt.After(list[j].LastMessageAt) })
	return list, int64(len(list)), nil
}

func (r *memMessageRepo) LatestThreadKeyBetween(ctx context.Context, userA, userB string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var latest *entity.Message
	for _, message := range r.messages {
		pair := (message.SenderID == userA && message.RecipientID == userB) ||
			(message.SenderID == userB && message.RecipientID == userA)
		if !pair {
			continue
		}
		if latest == nil || message.CreatedAt.After(latest.CreatedAt) {
			latest = message
		}
	}
	if latest == nil {
		return "", errors.NotFound("Thread", nil)
	}
	return latest.ThreadKey, nil
}

func (r *memMessageRepo) SetReadState(ctx context.Context, id string, read bool, readAt *time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	message, ok := r.messages[id]
	if !ok {
		return errors.NotFound("Message", nil)
	}
	message.Read = read
	message.ReadAt = readAt
	return nil
}

func (r *memMessageRepo) CountUnread(ctx context.Context, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, message := range r.messages {
		if message.RecipientID == userID && !message.Read {
			count++
		}
	}
	return count, nil
}

type memRatingRepo struct {
	mu      sync.Mutex
	ratings map[string]*entity.Rating
}

func newMemRatingRepo() *memRatingRepo {
	return &memRatingRepo{ratings: map[string]*entity.Rating{}}
}

func (r *memRatingRepo) Create(ctx context.Context, rating *entity.Rating) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.ratings {
		if existing.PurchaseID == rating.PurchaseID && existing.Direction == rating.Direction {
			return errors.DuplicateRating()
		}
	}
	if rating.ID == "" {
		rating.ID = uuid.New().String()
	}
	clone := *rating
	r.ratings[rating.ID] = &clone
	return nil
}

func (r *memRatingRepo) GetByID(ctx context.Context, id string) (*entity.Rating, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rating, ok := r.ratings[id]
	if !ok {
		return nil, errors.NotFound("Rating", nil)
	}
	clone := *rating
	return &clone, nil
}

func (r *memRatingRepo) GetByPurchaseAndDirection(ctx context.Context, purchaseID string, direction entity.RatingDirection) (*entity.Rating, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rating := range r.ratings {
		if rating.PurchaseID == purchaseID && rating.Direction == direction {
			clone := *rating
			return &clone, nil
		}
	}
	return nil, errors.NotFound("Rating", nil)
}

func (r *memRatingRepo) ListByPurchaseID(ctx context.Context, purchaseID string) ([]*entity.Rating, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []*entity.Rating
	for _, rating := range r.ratings {
		if rating.PurchaseID == purchaseID {
			clone := *rating
			matched = append(matched, &clone)
		}
	}
	return matched, nil
}

func (r *memRatingRepo) ListByRateeID(ctx context.Context, rateeID string, limit, offset int) ([]*entity.Rating, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []*entity.Rating
	for _, rating := range r.ratings {
		if rating.RateeID == rateeID {
			clone := *rating
			matched = append(matched, &clone)
		}
	}
	total := int64(len(matched))
	if offset >= len(matched) {
		return nil, total, nil
	}
	matched = matched[offset:]
	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, total, nil
}

type memReportRepo struct {
	mu      sync.Mutex
	reports map[string]*entity.Report
}

func newMemReportRepo() *memReportRepo {
	return &memReportRepo{reports: map[string]*entity.Report{}}
}

func (r *memReportRepo) Create(ctx context.Context, report *entity.Report) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if report.ID == "" {
		report.ID = uuid.New().String()
	}
	clone := *report
	r.reports[report.ID] = &clone
	return nil
}

func (r *memReportRepo) GetByID(ctx context.Context, id string) (*entity.Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	report, ok := r.reports[id]
	if !ok {
		return nil, errors.NotFound("Report", nil)
	}
	clone := *report
	return &clone, nil
}

func (r *memReportRepo) UpdateStatus(ctx context.Context, report *entity.Report, from []entity.ReportStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.reports[report.ID]
	if !ok {
		return errors.NotFound("Report", nil)
	}
	allowed := false
	for _, status := range from {
		if stored.Status == status {
			allowed = true
			break
		}
	}
	if !allowed {
		return errors.InvalidTransition(fmt.Sprintf("Report is %s", stored.Status))
	}
	clone := *report
	r.reports[report.ID] = &clone
	return nil
}

func (r *memReportRepo) List(ctx context.Context, filter map[string]interface{}, limit, offset int) ([]*entity.Report, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []*entity.Report
	for _, report := range r.reports {
		if status, ok := filter["status"].(entity.ReportStatus); ok && report.Status != status {
			continue
		}
		clone := *report
		matched = append(matched, &clone)
	}
	total := int64(len(matched))
	if offset >= len(matched) {
		return nil, total, nil
	}
	matched = matched[offset:]
	if limit > 0 && limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, total, nil
}

type memCommentRepo struct {
	mu       sync.Mutex
	comments map[string]*entity.Comment
}

func newMemCommentRepo() *memCommentRepo {
	return &memCommentRepo{comments: map[string]*entity.Comment{}}
}

func (r *memCommentRepo) Create(ctx context.Context, comment *entity.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if comment.ID == "" {
		comment.ID = uuid.New().String()
	}
	clone := *comment
	r.comments[comment.ID] = &clone
	return nil
}

func (r *memCommentRepo) GetByID(ctx context.Context, id string) (*entity.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	comment, ok := r.comments[id]
	if !ok {
		return nil, errors.NotFound("Comment", nil)
	}
	clone := *comment
	return &clone, nil
}

func (r *memCommentRepo) ListByProductID(ctx context.Context, productID string, limit, offset int) ([]*entity.Comment, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var matched []*entity.Comment
	for _, comment := range r.comments {
		if comment.ProductID == productID && comment.Active {
			clone := *comment
			matched = append(matched, &clone)
		}
	}
	return matched, int64(len(matched)), nil
}

func (r *memCommentRepo) Update(ctx context.Context, comment *entity.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.comments[comment.ID]; !ok {
		return errors.NotFound("Comment", nil)
	}
	clone := *comment
	r.comments[comment.ID] = &clone
	return nil
}

type memCategoryRepo struct {
	mu         sync.Mutex
	categories map[string]*entity.Category
}

func newMemCategoryRepo() *memCategoryRepo {
	return &memCategoryRepo{categories: map[string]*entity.Category{}}
}

func (r *memCategoryRepo) GetByID(ctx context.Context, id string) (*entity.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	category, ok := r.categories[id]
	if !ok {
		return nil, errors.NotFound("Category", nil)
	}
	clone := *category
	return &clone, nil
}

func (r *memCategoryRepo) List(ctx context.Context) ([]*entity.Category, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var list []*entity.Category
	for _, category := range r.categories {
		clone := *category
		list = append(list, &clone)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Sequence < list[j].Sequence })
	return list, nil
}

type memTagRepo struct {
	mu   sync.Mutex
	tags map[string]*entity.Tag
}

func newMemTagRepo() *memTagRepo {
	return &memTagRepo{tags: map[string]*entity.Tag{}}
}

func (r *memTagRepo) Create(ctx context.Context, tag *entity.Tag) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if tag.ID == "" {
		tag.ID = uuid.New().String()
	}
	clone := *tag
	r.tags[tag.ID] = &clone
	return nil
}

func (r *memTagRepo) GetByID(ctx context.Context, id string) (*entity.Tag, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	tag, ok := r.tags[id]
	if !ok {
		return nil, errors.NotFound("Tag", nil)
	}
	clone := *tag
	return &clone, nil
}

func (r *memTagRepo) GetByName(ctx context.Context, name string) (*entity.Tag, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, tag := range r.tags {
		if tag.Name == name {
			clone := *tag
			return &clone, nil
		}
	}
	return nil, errors.NotFound("Tag", nil)
}

func (r *memTagRepo) GetByIDs(ctx context.Context, ids []string) ([]*entity.Tag, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var list []*entity.Tag
	for _, id := range ids {
		if tag, ok := r.tags[id]; ok {
			clone := *tag
			list = append(list, &clone)
		}
	}
	return list, nil
}

func (r *memTagRepo) List(ctx context.Context, limit, offset int) ([]*entity.Tag, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var list []*entity.Tag
	for _, tag := range r.tags {
		clone := *tag
		list = append(list, &clone)
	}
	return list, int64(len(list)), nil
}

type seqCodes struct {
	mu sync.Mutex
	n  int
}

func (c *seqCodes) NextPurchaseCode() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.n++
	return fmt.Sprintf("REN-%08d", c.n)
}

type allowAllLimiter struct{}

func (allowAllLimiter) Allow(userID, action string) (bool, time.Duration) { return true, 0 }

type denyAllLimiter struct{}

func (denyAllLimiter) Allow(userID, action string) (bool, time.Duration) {
	return false, 6 * time.Second
}

type memStorage struct{}

func (memStorage) UploadFile(ctx context.Context, reader io.Reader, objectName, contentType string) (string, error) {
	io.Copy(io.Discard, reader)
	return "https://storage.example.com/" + objectName, nil
}

func (memStorage) DeleteFile(ctx context.Context, objectName string) error { return nil }
