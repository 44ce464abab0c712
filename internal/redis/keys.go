package redis

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/ayang007/flora-fauna/internal/domain"
)

func postKey(postID string) string {
	return "post:" + postID
}

func commentKey(postID, commentID string) string {
	return "comment:" + postID + ":" + commentID
}

func identKey(postID, candidateID string) string {
	return "ident:" + postID + ":" + candidateID
}

func consensusKey(postID string) string {
	return "consensus:" + postID
}

func votesKey(userID uuid.UUID) string {
	return "votes:" + userID.String()
}

func statsKey(userID uuid.UUID) string {
	return "stats:" + userID.String()
}

const postsIndexKey = "idx:posts"

func commentsIndexKey(postID string) string {
	return "idx:comments:" + postID
}

func identsIndexKey(postID string) string {
	return "idx:idents:" + postID
}

// targetKeys returns the document key, the rating index key, and the
// index member for a votable target.
func targetKeys(target domain.Target) (docKey, indexKey, member string, err error) {
	switch target.Kind {
	case domain.KindPost:
		return postKey(target.PostID), postsIndexKey, target.PostID, nil
	case domain.KindComment:
		return commentKey(target.PostID, target.ID), commentsIndexKey(target.PostID), target.ID, nil
	case domain.KindIdentification:
		return identKey(target.PostID, target.ID), identsIndexKey(target.PostID), target.ID, nil
	default:
		return "", "", "", fmt.Errorf("unknown target kind %q", target.Kind)
	}
}

// recordField is the vote-record hash field for a target. The field is
// deleted on retraction, so a missing field always means "absent".
func recordField(target domain.Target) (string, error) {
	switch target.Kind {
	case domain.KindPost:
		return "p:" + target.PostID, nil
	case domain.KindComment:
		return "c:" + target.PostID + ":" + target.ID, nil
	case domain.KindIdentification:
		return "i:" + target.PostID + ":" + target.ID, nil
	default:
		return "", fmt.Errorf("unknown target kind %q", target.Kind)
	}
}

// statsField is the cumulative author statistic for a target kind.
func statsField(kind domain.TargetKind) (string, error) {
	switch kind {
	case domain.KindPost:
		return "total_post_rating", nil
	case domain.KindComment:
		return "total_comment_rating", nil
	case domain.KindIdentification:
		return "total_ident_rating", nil
	default:
		return "", fmt.Errorf("unknown target kind %q", kind)
	}
}
