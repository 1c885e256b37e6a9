package reconcile

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/shoestock/backend/internal/domain/catalog"
	"github.com/shoestock/backend/internal/domain/shared"
)

// Observation is one product mention: a row of an arrival sheet, the Data
// sheet, or a product token of an order row.
type Observation struct {
	Number      string
	Type        string
	Subtype     string
	Brand       string
	Gender      string
	Color       string
	Country     string
	Condition   string
	Model       string
	Marking     string
	Year        int
	Description string
	Size        string
	Measurement string
	Price       decimal.Decimal
	SheetDate   time.Time
}

// ProductResolver reconciles product observations into catalog entries:
// per-row upsert with variant suffix allocation, then the batch merge,
// renumber and prune passes. The seen set is owned by the run.
type ProductResolver struct {
	products catalog.ProductRepository
	refs     *ReferenceResolver
	policy   catalog.MergePolicy
	logger   *zap.Logger
	stats    *Stats

	seen map[uuid.UUID]struct{}
}

// NewProductResolver creates a resolver with an empty seen set.
func NewProductResolver(products catalog.ProductRepository, refs *ReferenceResolver,
	policy catalog.MergePolicy, logger *zap.Logger, stats *Stats) *ProductResolver {
	return &ProductResolver{
		products: products,
		refs:     refs,
		policy:   policy,
		logger:   logger,
		stats:    stats,
		seen:     make(map[uuid.UUID]struct{}),
	}
}

// MarkSeen records that an entry was mentioned this pass, exempting it from
// the prune pass.
func (r *ProductResolver) MarkSeen(id uuid.UUID) {
	r.seen[id] = struct{}{}
}

type resolvedRefs struct {
	typeID      *uuid.UUID
	subtypeID   *uuid.UUID
	brandID     *uuid.UUID
	colorID     *uuid.UUID
	countryID   *uuid.UUID
	conditionID *uuid.UUID
	statusID    *uuid.UUID
	gender      catalog.Gender
}

func (r *ProductResolver) resolveRefs(ctx context.Context, obs Observation) (resolvedRefs, error) {
	var refs resolvedRefs
	var err error

	if refs.typeID, err = r.refs.TypeID(ctx, obs.Type); err != nil {
		return refs, err
	}
	if refs.subtypeID, err = r.refs.SubtypeID(ctx, obs.Subtype); err != nil {
		return refs, err
	}
	if refs.brandID, err = r.refs.BrandID(ctx, obs.Brand); err != nil {
		return refs, err
	}
	if refs.colorID, err = r.refs.ColorID(ctx, obs.Color); err != nil {
		return refs, err
	}
	var recognized bool
	if refs.countryID, recognized, err = r.refs.CountryID(ctx, obs.Country); err != nil {
		return refs, err
	}
	if !recognized {
		r.stats.UnknownCountries++
	}
	if refs.conditionID, err = r.refs.ConditionID(ctx, obs.Condition); err != nil {
		return refs, err
	}
	if refs.statusID, err = r.refs.ProductStatusID(ctx, catalog.DefaultProductStatus); err != nil {
		return refs, err
	}

	refs.gender = catalog.ParseGender(obs.Gender)
	if refs.gender == catalog.GenderUnknown && strings.TrimSpace(obs.Gender) != "" {
		r.stats.UnknownGenders++
	}
	return refs, nil
}

// Upsert reconciles one observation. An entry already stored under the
// exact catalog number is checked first: another unit of its style run
// increments the quantity and stops, a same-item re-observation updates the
// entry's mutable fields in place, and a genuinely different item gets the
// next free "(n)" suffix. A free number becomes a new entry as written.
func (r *ProductResolver) Upsert(ctx context.Context, obs Observation) (*catalog.Product, error) {
	number := catalog.SanitizeNumber(obs.Number)
	base := catalog.BaseNumber(number)

	refs, err := r.resolveRefs(ctx, obs)
	if err != nil {
		return nil, err
	}

	existing, err := r.products.FindByNumber(ctx, number)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		if existing.MatchesStyleRun(refs.typeID, refs.subtypeID, refs.brandID, obs.Model, obs.Marking) {
			// Another unit of the run: quantity only, no attribute merge.
			existing.AddUnit()
			if err := r.products.Save(ctx, existing); err != nil {
				return nil, err
			}
			r.stats.UnitsAdded++
			r.MarkSeen(existing.ID)
			return existing, nil
		}

		incoming := &catalog.Product{}
		r.apply(incoming, obs, refs)
		if catalog.IdenticalForMerge(existing, incoming, r.policy) {
			r.update(existing, obs, refs)
			if err := r.products.Save(ctx, existing); err != nil {
				return nil, err
			}
			r.stats.ProductsUpdated++
			r.MarkSeen(existing.ID)
			return existing, nil
		}

		// A different item under a taken number.
		variants, err := r.products.FindAllByBase(ctx, base)
		if err != nil {
			return nil, err
		}
		number = r.allocateNumber(base, variants)
	}

	product, err := catalog.NewProduct(number, obs.SheetDate)
	if err != nil {
		return nil, err
	}
	r.apply(product, obs, refs)
	if err := r.products.Save(ctx, product); err != nil {
		return nil, err
	}
	r.stats.ProductsCreated++
	r.logger.Debug("Created product", zap.String("number", product.Number))
	r.MarkSeen(product.ID)
	return product, nil
}

// allocateNumber picks the base number if free, otherwise base(maxSuffix+1).
func (r *ProductResolver) allocateNumber(base string, variants []*catalog.Product) string {
	maxSuffix := -1
	for _, v := range variants {
		if s := v.SuffixIndex(); s > maxSuffix {
			maxSuffix = s
		}
	}
	if maxSuffix < 0 {
		return base
	}
	return catalog.SuffixedNumber(base, maxSuffix+1)
}

func (r *ProductResolver) apply(p *catalog.Product, obs Observation, refs resolvedRefs) {
	p.TypeID = refs.typeID
	p.SubtypeID = refs.subtypeID
	p.BrandID = refs.brandID
	p.ColorID = refs.colorID
	p.CountryID = refs.countryID
	p.ConditionID = refs.conditionID
	p.StatusID = refs.statusID
	p.Gender = refs.gender
	p.Model = strings.TrimSpace(obs.Model)
	p.Marking = strings.TrimSpace(obs.Marking)
	p.Year = obs.Year
	p.Description = strings.TrimSpace(obs.Description)
	p.SizeEU = strings.TrimSpace(obs.Size)
	p.MeasurementCM = strings.TrimSpace(obs.Measurement)
}

// update overwrites the mutable attribute fields of a re-observed entry.
// A blank observed size or measurement means "unknown" under the merge
// rule, so it never erases a stored value.
func (r *ProductResolver) update(p *catalog.Product, obs Observation, refs resolvedRefs) {
	size, measurement := p.SizeEU, p.MeasurementCM
	r.apply(p, obs, refs)
	if strings.TrimSpace(obs.Size) == "" {
		p.SizeEU = size
	}
	if strings.TrimSpace(obs.Measurement) == "" {
		p.MeasurementCM = measurement
	}
	p.Touch()
}

// MergeSimilar collapses duplicate entries within each base-number group.
// The survivor is the unsuffixed entry, else the lowest suffix; an identical
// sibling is a duplicate observation of the same physical item, so it is
// deleted outright with its number recorded as a clone. The survivor's
// quantity stays as is. A sole survivor left with a suffix gets the bare
// base number back.
func (r *ProductResolver) MergeSimilar(ctx context.Context) error {
	all, err := r.products.FindAll(ctx)
	if err != nil {
		return err
	}

	for base, group := range groupByBase(all) {
		if len(group) < 2 {
			continue
		}
		sortBySuffix(group)

		survivors := []*catalog.Product{group[0]}
		for _, candidate := range group[1:] {
			merged := false
			for _, survivor := range survivors {
				if !catalog.IdenticalForMerge(survivor, candidate, r.policy) {
					continue
				}
				appendClone(survivor, candidate.Number)
				r.backfillFrom(survivor, candidate)
				survivor.Touch()
				if err := r.products.Save(ctx, survivor); err != nil {
					return err
				}
				if err := r.products.Delete(ctx, candidate.ID); err != nil {
					return err
				}
				delete(r.seen, candidate.ID)
				r.stats.ProductsMerged++
				r.logger.Debug("Merged duplicate product",
					zap.String("into", survivor.Number),
					zap.String("removed", candidate.Number))
				merged = true
				break
			}
			if !merged {
				survivors = append(survivors, candidate)
			}
		}

		if len(survivors) == 1 && survivors[0].SuffixIndex() > 0 {
			survivors[0].Rename(base)
			if err := r.products.Save(ctx, survivors[0]); err != nil {
				return err
			}
		}
	}
	return nil
}

// RenumberByDate reorders the suffixes within each surviving variant group
// by arrival date: oldest gets "(1)", newest keeps the bare base number.
func (r *ProductResolver) RenumberByDate(ctx context.Context) error {
	all, err := r.products.FindAll(ctx)
	if err != nil {
		return err
	}

	for base, group := range groupByBase(all) {
		if len(group) < 2 {
			continue
		}
		sort.SliceStable(group, func(i, j int) bool {
			return group[i].DateAdded.Before(group[j].DateAdded)
		})

		targets := make([]string, len(group))
		for i := range group {
			if i == len(group)-1 {
				targets[i] = base
			} else {
				targets[i] = catalog.SuffixedNumber(base, i+1)
			}
		}

		changed := false
		for i, p := range group {
			if p.Number != targets[i] {
				changed = true
				break
			}
		}
		if !changed {
			continue
		}

		// Two phases: targets permute numbers already present in the
		// group, so park every entry on a free suffix first.
		maxSuffix := 0
		for _, p := range group {
			if s := p.SuffixIndex(); s > maxSuffix {
				maxSuffix = s
			}
		}
		for i, p := range group {
			p.Rename(catalog.SuffixedNumber(base, maxSuffix+1+i))
			if err := r.products.Save(ctx, p); err != nil {
				return err
			}
		}
		for i, p := range group {
			p.Rename(targets[i])
			if err := r.products.Save(ctx, p); err != nil {
				return err
			}
			r.stats.ProductsRenumbered++
		}
	}
	return nil
}

// PruneAbsent removes entries no sheet mentioned this pass, plus lookup
// placeholders that never accumulated real attributes. Only meaningful
// after a full pass over every document.
func (r *ProductResolver) PruneAbsent(ctx context.Context) error {
	all, err := r.products.FindAll(ctx)
	if err != nil {
		return err
	}

	for _, p := range all {
		_, mentioned := r.seen[p.ID]
		placeholder := strings.HasPrefix(p.Number, "#") && p.AttributeCount() < 2
		if mentioned && !placeholder {
			continue
		}
		if err := r.products.Delete(ctx, p.ID); err != nil {
			return err
		}
		r.stats.ProductsPruned++
		r.logger.Debug("Pruned product", zap.String("number", p.Number))
	}
	return nil
}

func groupByBase(products []*catalog.Product) map[string][]*catalog.Product {
	groups := make(map[string][]*catalog.Product)
	for _, p := range products {
		base := p.BaseNumber()
		groups[base] = append(groups[base], p)
	}
	return groups
}

func sortBySuffix(group []*catalog.Product) {
	sort.SliceStable(group, func(i, j int) bool {
		return group[i].SuffixIndex() < group[j].SuffixIndex()
	})
}

func appendClone(p *catalog.Product, number string) {
	if p.ClonedNumbers == "" {
		p.ClonedNumbers = number
		return
	}
	p.ClonedNumbers += "," + number
}

// backfillFrom copies attributes of a merged-away duplicate into the
// survivor's empty fields.
func (r *ProductResolver) backfillFrom(dst, src *catalog.Product) {
	if dst.SizeEU == "" {
		dst.SizeEU = src.SizeEU
	}
	if dst.MeasurementCM == "" {
		dst.MeasurementCM = src.MeasurementCM
	}
	if dst.Description == "" {
		dst.Description = src.Description
	}
	if dst.ColorID == nil {
		dst.ColorID = src.ColorID
	}
	if dst.CountryID == nil {
		dst.CountryID = src.CountryID
	}
	if dst.Price.IsZero() {
		dst.Price = src.Price
		dst.OldPrice = src.OldPrice
	}
}
