package pipeline

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"pawpedia/content"
)

// Collections written by the pipeline. The front end reads these names.
const (
	CollectionBlogDetails = "blog_details"
	CollectionBlog        = "blog"
	CollectionFacts       = "facts"
	CollectionFactDetails = "fact_details"
	CollectionBreeds      = "breeds"
	CollectionShop        = "shop"

	blogAggregateID = "posts"
	factListID      = "dog_facts"
)

// blogAggregate is the full-replace document behind the blog index page.
type blogAggregate struct {
	Records     []content.Record `json:"records"`
	GeneratedAt int64            `json:"generatedAt"`
}

// GenerateBlogs produces one blog record per topic and, if at least one
// succeeded, replaces the aggregate listing document.
func (r *Runner) GenerateBlogs(ctx context.Context, topics []string) (*Report, error) {
	log, report := r.newRunLogger("blogs")
	log.Info("starting blog generation", zap.Int("topics", len(topics)))

	for i, topic := range topics {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		log.Info("generating blog post",
			zap.Int("n", i+1), zap.Int("total", len(topics)), zap.String("topic", topic))

		obj, err := r.produce(ctx, content.BlogPostPrompt(topic), content.BlogPost)
		if err != nil {
			report.Failed++
			if r.aborted(err) {
				report.Aborted = true
				log.Warn("aborting run after consecutive failures", zap.Error(err))
				break
			}
			log.Warn("topic failed", zap.String("topic", topic), zap.Error(err))
			if err := r.sleep(ctx, r.cfg.FailureDelay); err != nil {
				return report, err
			}
			continue
		}

		rec := r.assembleBlog(ctx, topic, obj)
		if err := r.persist(ctx, CollectionBlogDetails, rec.ID, rec, rec.CreatedAt); err != nil {
			report.Failed++
			log.Error("persist failed", zap.String("id", rec.ID), zap.Error(err))
		} else {
			report.Succeeded++
			report.Records = append(report.Records, rec)
			log.Info("blog post persisted", zap.String("id", rec.ID), zap.String("title", rec.Title))
		}
		if err := r.sleep(ctx, r.cfg.SuccessDelay); err != nil {
			return report, err
		}
	}

	r.writeBlogAggregate(ctx, log, report)
	if report.Aborted {
		return report, ErrRunAborted
	}
	return report, nil
}

// writeBlogAggregate fully replaces the listing document when the run
// produced anything; a run with zero successes leaves the prior aggregate
// untouched.
func (r *Runner) writeBlogAggregate(ctx context.Context, log *zap.Logger, report *Report) {
	if len(report.Records) == 0 {
		log.Warn("no blog posts produced; aggregate left untouched")
		return
	}
	now := r.clock().UnixMilli()
	agg := blogAggregate{Records: report.Records, GeneratedAt: now}
	if err := r.persist(ctx, CollectionBlog, blogAggregateID, agg, now); err != nil {
		log.Error("aggregate persist failed", zap.Error(err))
		return
	}
	log.Info("aggregate updated", zap.Int("records", len(report.Records)))
}

// assembleBlog lifts the extractor output into a Record and enriches it with
// a random dog image. Enrichment failure is tolerated: the record falls back
// to the placeholder image and says so.
func (r *Runner) assembleBlog(ctx context.Context, topic string, obj map[string]any) content.Record {
	id := content.Slugify(topic)
	rec := content.Record{
		ID:        id,
		Title:     stringField(obj, "title"),
		Slug:      stringField(obj, "slug"),
		Summary:   stringField(obj, "summary"),
		Body:      stringField(obj, "content"),
		Tags:      stringList(obj["tags"]),
		CreatedAt: r.clock().UnixMilli(),
	}
	if rec.Slug == "" {
		rec.Slug = id
	}
	rec.Extra = extraFields(obj, "title", "slug", "summary", "content", "tags")

	img, err := r.images.RandomImage(ctx)
	if err != nil {
		r.log.Warn("image enrichment failed, using fallback",
			zap.String("id", id), zap.Error(err))
		rec.Image = r.cfg.FallbackImage
		rec.ImageSource = content.MediaFallback
	} else {
		rec.Image = img
		rec.ImageSource = content.MediaEnriched
	}
	return rec
}

// GenerateFacts produces the fact listing document first, then one detail
// record per fact (the original site's facts flow).
func (r *Runner) GenerateFacts(ctx context.Context, count int) (*Report, error) {
	log, report := r.newRunLogger("facts")
	log.Info("starting facts generation", zap.Int("count", count))

	obj, err := r.produce(ctx, content.FactListPrompt(count), content.FactList)
	if err != nil {
		return report, fmt.Errorf("generate fact list: %w", err)
	}
	facts := stringList(obj["facts"])
	if len(facts) == 0 {
		return report, fmt.Errorf("generate fact list: no usable facts in response")
	}
	log.Info("fact list generated", zap.Int("facts", len(facts)))

	now := r.clock().UnixMilli()
	if err := r.persist(ctx, CollectionFacts, factListID, facts, now); err != nil {
		return report, err
	}

	for i, fact := range facts {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		id := fmt.Sprintf("fact-%d", i+1)
		log.Info("generating fact details",
			zap.Int("n", i+1), zap.Int("total", len(facts)))

		detail, err := r.produce(ctx, content.FactDetailsPrompt(fact), content.FactDetails)
		if err != nil {
			report.Failed++
			if r.aborted(err) {
				report.Aborted = true
				log.Warn("aborting run after consecutive failures", zap.Error(err))
				break
			}
			log.Warn("fact failed", zap.String("id", id), zap.Error(err))
			if err := r.sleep(ctx, r.cfg.FailureDelay); err != nil {
				return report, err
			}
			continue
		}

		rec := content.Record{
			ID:        id,
			Title:     stringField(detail, "title"),
			Slug:      id,
			Body:      stringField(detail, "explanation"),
			CreatedAt: r.clock().UnixMilli(),
			Extra:     extraFields(detail, "title", "explanation"),
		}
		if err := r.persist(ctx, CollectionFactDetails, id, rec, rec.CreatedAt); err != nil {
			report.Failed++
			log.Error("persist failed", zap.String("id", id), zap.Error(err))
		} else {
			report.Succeeded++
			report.Records = append(report.Records, rec)
		}
		if err := r.sleep(ctx, r.cfg.SuccessDelay); err != nil {
			return report, err
		}
	}

	if report.Aborted {
		return report, ErrRunAborted
	}
	return report, nil
}

// GenerateBreeds walks the full breed catalog from the image API and writes
// one encyclopedia record per breed and sub-breed.
func (r *Runner) GenerateBreeds(ctx context.Context) (*Report, error) {
	log, report := r.newRunLogger("breeds")

	catalog, err := r.images.AllBreeds(ctx)
	if err != nil {
		return report, fmt.Errorf("list breeds: %w", err)
	}
	breeds := make([]string, 0, len(catalog))
	for breed := range catalog {
		breeds = append(breeds, breed)
	}
	sort.Strings(breeds)
	log.Info("starting breed generation", zap.Int("breeds", len(breeds)))

	for _, breed := range breeds {
		subjects := append([]string{""}, catalog[breed]...)
		for _, sub := range subjects {
			if err := ctx.Err(); err != nil {
				return report, err
			}
			id := breed
			if sub != "" {
				id = breed + "_" + sub
			}

			obj, err := r.produce(ctx, content.BreedInfoPrompt(breed, sub), content.BreedInfo)
			if err != nil {
				report.Failed++
				if r.aborted(err) {
					report.Aborted = true
					log.Warn("aborting run after consecutive failures", zap.Error(err))
					return report, ErrRunAborted
				}
				log.Warn("breed failed", zap.String("id", id), zap.Error(err))
				if err := r.sleep(ctx, r.cfg.FailureDelay); err != nil {
					return report, err
				}
				continue
			}

			rec := r.assembleBreed(ctx, breed, sub, id, obj)
			if err := r.persist(ctx, CollectionBreeds, id, rec, rec.CreatedAt); err != nil {
				report.Failed++
				log.Error("persist failed", zap.String("id", id), zap.Error(err))
			} else {
				report.Succeeded++
				report.Records = append(report.Records, rec)
				log.Info("breed persisted", zap.String("id", id))
			}
			if err := r.sleep(ctx, r.cfg.SuccessDelay); err != nil {
				return report, err
			}
		}
	}
	return report, nil
}

func (r *Runner) assembleBreed(ctx context.Context, breed, sub, id string, obj map[string]any) content.Record {
	rec := content.Record{
		ID:        id,
		Title:     breedTitle(breed, sub),
		Slug:      id,
		Summary:   stringField(obj, "description"),
		Body:      stringField(obj, "history"),
		CreatedAt: r.clock().UnixMilli(),
		Extra:     extraFields(obj, "description", "history"),
	}

	var img string
	var err error
	if sub != "" {
		img, err = r.images.SubBreedRandomImage(ctx, breed, sub)
	} else {
		img, err = r.images.BreedRandomImage(ctx, breed)
	}
	if err != nil {
		r.log.Warn("image enrichment failed, using fallback",
			zap.String("id", id), zap.Error(err))
		rec.Image = r.cfg.FallbackImage
		rec.ImageSource = content.MediaFallback
	} else {
		rec.Image = img
		rec.ImageSource = content.MediaEnriched
	}
	return rec
}

func breedTitle(breed, sub string) string {
	if sub != "" {
		return sub + " " + breed
	}
	return breed
}

// UpdateShop refreshes the per-category product documents. The product
// source is lenient, so an upstream outage just writes fewer products.
func (r *Runner) UpdateShop(ctx context.Context, categories map[string]string) (*Report, error) {
	log, report := r.newRunLogger("shop")
	log.Info("starting shop update", zap.Int("categories", len(categories)))

	names := make([]string, 0, len(categories))
	for name := range categories {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, category := range names {
		if err := ctx.Err(); err != nil {
			return report, err
		}
		products := r.products.RelatedProducts(ctx, categories[category])
		if len(products) == 0 {
			log.Warn("no products fetched", zap.String("category", category))
		}
		for i := range products {
			products[i].Category = category
		}
		now := r.clock().UnixMilli()
		if err := r.persist(ctx, CollectionShop, category, products, now); err != nil {
			report.Failed++
			log.Error("persist failed", zap.String("category", category), zap.Error(err))
			continue
		}
		report.Succeeded++
		log.Info("shop category updated",
			zap.String("category", category), zap.Int("products", len(products)))
	}
	return report, nil
}

// extraFields returns every key of obj not already lifted into the record.
func extraFields(obj map[string]any, lifted ...string) map[string]any {
	skip := make(map[string]bool, len(lifted))
	for _, k := range lifted {
		skip[k] = true
	}
	extra := make(map[string]any)
	for k, v := range obj {
		if !skip[k] {
			extra[k] = v
		}
	}
	if len(extra) == 0 {
		return nil
	}
	return extra
}
