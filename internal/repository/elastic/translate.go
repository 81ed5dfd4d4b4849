package elastic

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9/typedapi/core/search"
	"github.com/elastic/go-elasticsearch/v9/typedapi/types"
	"github.com/elastic/go-elasticsearch/v9/typedapi/types/enums/sortorder"

	"github.com/kailas-cloud/chatsearch/internal/domain/search/query"
)

// cosineScript ranks every document by cosine similarity of the query vector
// against its stored vector, offset so scores land in [0, 2].
const cosineScript = "cosineSimilarity(params.query_vector, doc['%s']) + %s"

// translate converts a backend-agnostic structured request into a typed
// Elasticsearch search request.
func translate(req *query.Request) (*search.Request, error) {
	esReq := &search.Request{}

	q, err := translateQuery(req)
	if err != nil {
		return nil, err
	}
	esReq.Query = q

	if req.Size > 0 {
		size := req.Size
		esReq.Size = &size
	}

	if req.Sort != nil {
		order := &sortorder.Asc
		if req.Sort.Desc {
			order = &sortorder.Desc
		}
		esReq.Sort = []types.SortCombinations{
			types.SortOptions{SortOptions: map[string]types.FieldSort{
				req.Sort.Field: {Order: order},
			}},
		}
	}

	return esReq, nil
}

func translateQuery(req *query.Request) (*types.Query, error) {
	if req.Vector != nil {
		return translateVectorQuery(req.Vector)
	}

	must := make([]types.Query, 0, len(req.Matches))
	switch {
	case len(req.Matches) == 1:
		m := req.Matches[0]
		must = append(must, types.Query{
			Match: map[string]types.MatchQuery{m.Field: matchQuery(m)},
		})
	case len(req.Matches) > 1:
		// Several match targets collapse into one multi_match with caret boosts.
		fields := make([]string, len(req.Matches))
		for i, m := range req.Matches {
			fields[i] = m.Field
			if m.Boost > 0 {
				fields[i] += "^" + strconv.FormatFloat(m.Boost, 'f', -1, 64)
			}
		}
		must = append(must, types.Query{
			MultiMatch: &types.MultiMatchQuery{
				Query:  req.Matches[0].Text,
				Fields: fields,
			},
		})
	default:
		return nil, fmt.Errorf("request has no match clauses")
	}

	if len(req.Filters) == 0 {
		if len(must) == 1 {
			return &must[0], nil
		}
		return &types.Query{Bool: &types.BoolQuery{Must: must}}, nil
	}

	// Term-level filter clauses: exact matching only, no analysis, no scoring.
	filters := make([]types.Query, 0, len(req.Filters))
	for _, f := range req.Filters {
		filters = append(filters, types.Query{
			Term: map[string]types.TermQuery{f.Field: {Value: f.Value}},
		})
	}

	return &types.Query{Bool: &types.BoolQuery{Must: must, Filter: filters}}, nil
}

func translateVectorQuery(v *query.Vector) (*types.Query, error) {
	vec, err := json.Marshal(v.Values)
	if err != nil {
		return nil, fmt.Errorf("marshal query vector: %w", err)
	}

	src := fmt.Sprintf(cosineScript, v.Field, strconv.FormatFloat(query.ScoreOffset, 'f', 1, 64))
	return &types.Query{
		ScriptScore: &types.ScriptScoreQuery{
			Query: types.Query{MatchAll: &types.MatchAllQuery{}},
			Script: types.Script{
				Source: src,
				Params: map[string]json.RawMessage{"query_vector": vec},
			},
		},
	}, nil
}

func matchQuery(m query.Match) types.MatchQuery {
	mq := types.MatchQuery{Query: m.Text}
	if m.Boost > 0 {
		boost := float32(m.Boost)
		mq.Boost = &boost
	}
	return mq
}
