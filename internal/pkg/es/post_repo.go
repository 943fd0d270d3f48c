package es

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"Wellspring/internal/pkg/consts"
	"Wellspring/internal/pkg/util"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/typedapi/core/search"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/conflicts"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/sortorder"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/versiontype"
	"github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"
)

const MaxSearchDepth = 400

type PostRepo interface {
	HybridSearch(ctx context.Context, queryText string, queryVector []float32, from, size int) ([]*PostES, error)
	GetPostById(ctx context.Context, id uint64) (*PostES, error)
	GetPostsByChallenge(ctx context.Context, challengeID uint64, from, size int) ([]*PostES, error)
	GetLatestPostsByCursor(ctx context.Context, lastSortValues []interface{}, size int) ([]*PostES, error)
	GetUserPosts(ctx context.Context, userID uint64, from, size int) ([]*PostES, error)
	IndexPost(ctx context.Context, post *PostES, version int64) error
	DeletePost(ctx context.Context, id uint64) error
	UpdatePostUserDetail(ctx context.Context, userID uint64, newNickname string, newAvatar string) error
}

type PostRepoImpl struct {
	client *elasticsearch.TypedClient
}

func NewPostRepo(client *elasticsearch.TypedClient) PostRepo {
	return &PostRepoImpl{client: client}
}

// HybridSearch 文本 + 向量双路召回，RRF 融合
func (s *PostRepoImpl) HybridSearch(ctx context.Context, queryText string, queryVector []float32, from, size int) ([]*PostES, error) {
	if from >= MaxSearchDepth {
		return []*PostES{}, nil
	}

	requestedDepth := from + size
	candidateLimit := s.calculateCandidateLimit(requestedDepth)

	statusFilter := []types.Query{{
		Term: map[string]types.TermQuery{
			"status": {Value: consts.PostStatusNormal},
		},
	}}

	var (
		vectorResults []*PostES
		textResults   []*PostES
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		vectorResults, err = s.vectorSearch(gctx, queryVector, candidateLimit, statusFilter)
		return err
	})

	g.Go(func() error {
		var err error
		textResults, err = s.textSearch(gctx, queryText, candidateLimit, statusFilter)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := s.manualRRF(vectorResults, textResults)

	start := from
	if start > len(merged) {
		return []*PostES{}, nil
	}
	end := start + size
	if end > len(merged) {
		end = len(merged)
	}

	return merged[start:end], nil
}

func (s *PostRepoImpl) GetPostById(ctx context.Context, id uint64) (*PostES, error) {
	docID := strconv.FormatUint(id, 10)
	result, err := s.client.Get(PostIndex, docID).Do(ctx)
	if err != nil {
		var e *types.ElasticsearchError
		if errors.As(err, &e) {
			if e.Status == NotFoundCode {
				return nil, nil
			}
		}
		return nil, err
	}
	if result.Source_ == nil {
		return nil, nil
	}
	var post PostES
	if err = json.Unmarshal(result.Source_, &post); err != nil {
		return nil, err
	}
	if post.Media == nil {
		post.Media = make([]PostMediaES, 0)
	}
	return &post, nil
}

// GetPostsByChallenge 获取挑战下的帖子 (按时间倒序)
func (s *PostRepoImpl) GetPostsByChallenge(ctx context.Context, challengeID uint64, from, size int) ([]*PostES, error) {
	searchReq := s.client.Search().
		Index(PostIndex).
		Query(&types.Query{
			Bool: &types.BoolQuery{
				Must: []types.Query{
					{
						Term: map[string]types.TermQuery{
							"challenge_id": {Value: challengeID},
						},
					},
				},
				Filter: []types.Query{
					{
						Term: map[string]types.TermQuery{
							"status": {Value: consts.PostStatusNormal},
						},
					},
				},
			},
		}).
		Source_(&types.SourceFilter{
			Excludes: []string{"content_vector"},
		}).
		Sort(types.SortOptions{
			SortOptions: map[string]types.FieldSort{
				"created_at": {Order: &sortorder.Desc},
			},
		}).
		From(from).
		Size(size)

	return s.executeSearch(ctx, searchReq)
}

// GetLatestPostsByCursor 最新流，SearchAfter 深分页
func (s *PostRepoImpl) GetLatestPostsByCursor(ctx context.Context, lastSortValues []interface{}, size int) ([]*PostES, error) {
	req := s.client.Search().
		Index(PostIndex).
		Query(&types.Query{
			Term: map[string]types.TermQuery{
				"status": {Value: consts.PostStatusNormal},
			},
		}).
		Sort(types.SortOptions{SortOptions: map[string]types.FieldSort{
			"created_at": {Order: &sortorder.Desc},
		}}).
		Source_(&types.SourceFilter{Excludes: []string{"content_vector"}}).
		Size(size)

	// 注入游标
	if len(lastSortValues) > 0 {
		searchAfterValues := make([]types.FieldValue, len(lastSortValues))
		for i, v := range lastSortValues {
			searchAfterValues[i] = v
		}
		req.SearchAfter(searchAfterValues...)
	}

	return s.executeSearch(ctx, req)
}

// GetUserPosts 获取指定用户的帖子列表
func (s *PostRepoImpl) GetUserPosts(ctx context.Context, userID uint64, from, size int) ([]*PostES, error) {
	searchReq := s.client.Search().
		Index(PostIndex).
		Query(&types.Query{
			Bool: &types.BoolQuery{
				Must: []types.Query{
					{
						Term: map[string]types.TermQuery{
							"user_id": {Value: userID},
						},
					},
				},
				Filter: []types.Query{
					{
						Term: map[string]types.TermQuery{
							"status": {Value: consts.PostStatusNormal},
						},
					},
				},
			},
		}).
		Source_(&types.SourceFilter{Excludes: []string{"content_vector"}}).
		Sort(types.SortOptions{SortOptions: map[string]types.FieldSort{
			"created_at": {Order: &sortorder.Desc},
		}}).
		From(from).
		Size(size)

	return s.executeSearch(ctx, searchReq)
}

func (s *PostRepoImpl) IndexPost(ctx context.Context, post *PostES, version int64) error {
	docID := strconv.FormatUint(post.ID, 10)

	_, err := s.client.Index(PostIndex).
		Id(docID).
		Document(post).
		Version(strconv.FormatInt(version, 10)).
		VersionType(versiontype.External).
		Do(ctx)

	if err != nil {
		var e *types.ElasticsearchError
		if errors.As(err, &e) {
			if e.Status == ConflictCode {
				return nil
			}
		}
		return err
	}

	return nil
}

func (s *PostRepoImpl) DeletePost(ctx context.Context, id uint64) error {
	docID := strconv.FormatUint(id, 10)

	_, err := s.client.Delete(PostIndex, docID).Do(ctx)

	if err != nil {
		var e *types.ElasticsearchError
		if errors.As(err, &e) {
			if e.Status == NotFoundCode {
				return nil
			}
		}
		return err
	}

	return nil
}

func (s *PostRepoImpl) UpdatePostUserDetail(ctx context.Context, userID uint64, newNickname string, newAvatar string) error {
	nicknameJSON, _ := json.Marshal(newNickname)
	avatarJSON, _ := json.Marshal(newAvatar)

	params := map[string]json.RawMessage{
		"new_nickname": json.RawMessage(nicknameJSON),
		"new_avatar":   json.RawMessage(avatarJSON),
	}

	scriptSource := "ctx._source.user_nickname = params.new_nickname; ctx._source.user_avatar = params.new_avatar;"

	req := s.client.UpdateByQuery(PostIndex).
		Query(&types.Query{
			Term: map[string]types.TermQuery{
				"user_id": {Value: userID},
			},
		}).
		Script(&types.Script{
			Source: &scriptSource,
			Params: params,
		}).
		Conflicts(conflicts.Proceed)

	resp, err := req.Do(ctx)
	if err != nil {
		return errors.New(fmt.Sprintf("Post Index: Update User Detail Failed: %s", err.Error()))
	}

	if len(resp.Failures) != 0 {
		return errors.New(fmt.Sprintf("Post Index: Update User Detail Has Failures, count: %d", len(resp.Failures)))
	}

	return nil
}

func (s *PostRepoImpl) vectorSearch(ctx context.Context, vector []float32, limit int, filters []types.Query) ([]*PostES, error) {
	if len(vector) == 0 {
		return []*PostES{}, nil
	}
	req := s.client.Search().Index(PostIndex).
		Knn(types.KnnSearch{
			Field:         "content_vector",
			QueryVector:   vector,
			K:             util.PtrInt(limit),
			NumCandidates: util.PtrInt(limit * 2),
			Filter:        filters,
		}).
		Source_(&types.SourceFilter{Excludes: []string{"content_vector"}}).
		Size(limit)

	return s.executeSearch(ctx, req)
}

func (s *PostRepoImpl) textSearch(ctx context.Context, text string, limit int, filters []types.Query) ([]*PostES, error) {
	if text == "" {
		return []*PostES{}, nil
	}

	req := s.client.Search().Index(PostIndex).
		Query(&types.Query{
			Bool: &types.BoolQuery{
				Should: []types.Query{
					{
						MultiMatch: &types.MultiMatchQuery{
							Query:  text,
							Fields: []string{"title^3", "tags^2", "content^1"},
							Boost:  util.PtrFloat32(2.0),
						},
					},
					{
						MultiMatch: &types.MultiMatchQuery{
							Query:     text,
							Fields:    []string{"title", "content"},
							Fuzziness: util.PtrStr("AUTO"),
							Boost:     util.PtrFloat32(0.5),
						},
					},
				},
				Filter: filters,
			},
		}).
		Source_(&types.SourceFilter{Excludes: []string{"content_vector"}}).
		Size(limit)

	return s.executeSearch(ctx, req)
}

func (s *PostRepoImpl) manualRRF(ranks ...[]*PostES) []*PostES {
	const k = 60
	scoreMap := make(map[uint64]float64)
	postMap := make(map[uint64]*PostES)

	for _, resultList := range ranks {
		for rank, post := range resultList {
			scoreMap[post.ID] += 1.0 / float64(k+rank+1)
			postMap[post.ID] = post
		}
	}

	merged := make([]*PostES, 0, len(postMap))
	for id := range postMap {
		merged = append(merged, postMap[id])
	}

	sort.Slice(merged, func(i, j int) bool {
		return scoreMap[merged[i].ID] > scoreMap[merged[j].ID]
	})

	return merged
}

func (s *PostRepoImpl) calculateCandidateLimit(depth int) int {
	limit := depth * 2

	if limit < depth {
		limit = depth
	}

	if limit > MaxSearchDepth {
		limit = MaxSearchDepth
	}

	return limit
}

func (s *PostRepoImpl) executeSearch(ctx context.Context, req *search.Search) ([]*PostES, error) {
	resp, err := req.Do(ctx)
	if err != nil {
		return nil, err
	}

	results := make([]*PostES, 0, len(resp.Hits.Hits))
	for _, hit := range resp.Hits.Hits {
		var post PostES
		if hit.Source_ == nil {
			continue
		}
		if err = json.Unmarshal(hit.Source_, &post); err != nil {
			continue
		}
		if len(hit.Sort) > 0 {
			post.Sort = make([]interface{}, len(hit.Sort))
			for i, v := range hit.Sort {
				post.Sort[i] = v
			}
		}
		results = append(results, &post)
	}
	return results, nil
}
