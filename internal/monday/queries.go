package monday

import (
	"context"
	"fmt"
	"strings"

	"github.com/machinebox/graphql"
	"github.com/robby/pulsedump/internal/domain"
)

// itemQuery fetches the complete item graph in a single round trip:
// metadata, column values, direct assets, and up to 100 updates with
// their assets and replies.
const itemQuery = `
	query($itemId: ID!) {
		items(ids: [$itemId]) {
			id
			name
			state
			created_at
			updated_at
			creator {
				id
				name
				email
			}
			board {
				id
				name
				workspace {
					name
				}
			}
			group {
				title
				color
			}
			column_values {
				id
				type
				text
				value
			}
			assets {
				id
				name
				url
				public_url
				file_extension
				file_size
			}
			updates(limit: 100) {
				id
				body
				text_body
				created_at
				creator {
					name
				}
				assets {
					id
					name
					url
					public_url
					file_extension
				}
				replies {
					id
					body
					text_body
					created_at
					creator {
						name
					}
				}
			}
		}
	}
`

// rawAsset is the wire shape of an asset in either asset list.
type rawAsset struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	URL           string `json:"url"`
	PublicURL     string `json:"public_url"`
	FileExtension string `json:"file_extension"`
	FileSize      int64  `json:"file_size"`
}

// GetItem fetches the complete item record for the given ID.
// Returns an *APIError on any transport, status, or GraphQL-level failure,
// and ErrItemNotFound when the API returns zero items for the ID.
func (c *Client) GetItem(ctx context.Context, itemID string) (*domain.Item, error) {
	req := graphql.NewRequest(itemQuery)
	req.Var("itemId", itemID)

	var resp struct {
		Items []struct {
			ID        string `json:"id"`
			Name      string `json:"name"`
			State     string `json:"state"`
			CreatedAt string `json:"created_at"`
			UpdatedAt string `json:"updated_at"`
			Creator   *struct {
				ID    string `json:"id"`
				Name  string `json:"name"`
				Email string `json:"email"`
			} `json:"creator"`
			Board *struct {
				ID        string `json:"id"`
				Name      string `json:"name"`
				Workspace *struct {
					Name string `json:"name"`
				} `json:"workspace"`
			} `json:"board"`
			Group *struct {
				Title string `json:"title"`
				Color string `json:"color"`
			} `json:"group"`
			ColumnValues []struct {
				ID    string `json:"id"`
				Type  string `json:"type"`
				Text  string `json:"text"`
				Value string `json:"value"`
			} `json:"column_values"`
			Assets  []rawAsset `json:"assets"`
			Updates []struct {
				ID        string `json:"id"`
				Body      string `json:"body"`
				TextBody  string `json:"text_body"`
				CreatedAt string `json:"created_at"`
				Creator   *struct {
					Name string `json:"name"`
				} `json:"creator"`
				Assets  []rawAsset `json:"assets"`
				Replies []struct {
					ID        string `json:"id"`
					Body      string `json:"body"`
					TextBody  string `json:"text_body"`
					CreatedAt string `json:"created_at"`
					Creator   *struct {
						Name string `json:"name"`
					} `json:"creator"`
				} `json:"replies"`
			} `json:"updates"`
		} `json:"items"`
	}

	if err := c.makeRequest(ctx, req, &resp); err != nil {
		return nil, &APIError{Err: err}
	}

	if len(resp.Items) == 0 {
		return nil, fmt.Errorf("%w: no item with ID %s", ErrItemNotFound, itemID)
	}

	node := resp.Items[0]
	item := &domain.Item{
		ID:        node.ID,
		Name:      node.Name,
		State:     node.State,
		CreatedAt: node.CreatedAt,
		UpdatedAt: node.UpdatedAt,
	}

	if node.Creator != nil {
		item.Creator = domain.User{
			ID:    node.Creator.ID,
			Name:  node.Creator.Name,
			Email: node.Creator.Email,
		}
	}

	if node.Board != nil {
		item.Board = domain.Board{
			ID:   node.Board.ID,
			Name: node.Board.Name,
		}
		if node.Board.Workspace != nil {
			item.Board.Workspace = node.Board.Workspace.Name
		}
	}

	if node.Group != nil {
		item.Group = domain.Group{
			Title: node.Group.Title,
			Color: node.Group.Color,
		}
	}

	item.ColumnValues = make([]domain.ColumnValue, 0, len(node.ColumnValues))
	for _, col := range node.ColumnValues {
		item.ColumnValues = append(item.ColumnValues, domain.ColumnValue{
			ID:    col.ID,
			Type:  col.Type,
			Text:  col.Text,
			Value: col.Value,
		})
	}

	item.Assets = mapAssets(node.Assets)

	item.Updates = make([]domain.Update, 0, len(node.Updates))
	for _, upd := range node.Updates {
		update := domain.Update{
			ID:        upd.ID,
			Body:      upd.Body,
			TextBody:  upd.TextBody,
			CreatedAt: upd.CreatedAt,
			Assets:    mapAssets(upd.Assets),
		}
		if upd.Creator != nil {
			update.Creator = upd.Creator.Name
		}

		update.Replies = make([]domain.Reply, 0, len(upd.Replies))
		for _, rep := range upd.Replies {
			reply := domain.Reply{
				ID:        rep.ID,
				Body:      rep.Body,
				TextBody:  rep.TextBody,
				CreatedAt: rep.CreatedAt,
			}
			if rep.Creator != nil {
				reply.Creator = rep.Creator.Name
			}
			update.Replies = append(update.Replies, reply)
		}

		item.Updates = append(item.Updates, update)
	}

	return item, nil
}

// mapAssets converts wire assets to domain assets.
func mapAssets(raw []rawAsset) []domain.Asset {
	assets := make([]domain.Asset, 0, len(raw))
	for _, a := range raw {
		assets = append(assets, domain.Asset{
			ID:        a.ID,
			Name:      a.Name,
			URL:       a.URL,
			PublicURL: a.PublicURL,
			Extension: a.FileExtension,
			Size:      a.FileSize,
		})
	}
	return assets
}

// ResolveAssetURL looks up a fetchable URL for a single asset ID. This is
// the secondary lookup used for image references discovered inside HTML
// bodies. It never fails: on any error or empty result it reports false and
// the caller degrades to the original URL.
func (c *Client) ResolveAssetURL(ctx context.Context, assetID string) (string, bool) {
	req := graphql.NewRequest(`
		query($assetId: ID!) {
			assets(ids: [$assetId]) {
				public_url
				url
			}
		}
	`)
	req.Var("assetId", assetID)

	var resp struct {
		Assets []struct {
			PublicURL string `json:"public_url"`
			URL       string `json:"url"`
		} `json:"assets"`
	}

	if err := c.makeRequest(ctx, req, &resp); err != nil {
		return "", false
	}

	if len(resp.Assets) == 0 {
		return "", false
	}

	asset := resp.Assets[0]
	if asset.PublicURL != "" {
		return asset.PublicURL, true
	}
	if asset.URL != "" {
		return asset.URL, true
	}

	return "", false
}

// ParseItemRef extracts an item ID from a Monday.com item URL. Item URLs
// contain a path segment "pulses/<id>"; when the segment is absent the
// whole argument is treated as a literal item ID.
func ParseItemRef(arg string) string {
	parts := strings.Split(arg, "/")
	for i, part := range parts {
		if part == "pulses" && i+1 < len(parts) {
			return parts[i+1]
		}
	}
	return arg
}
