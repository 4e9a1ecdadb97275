package objectdetection

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"go.viam.com/ssd/utils"
)

// Labels maps class ids to names by index.
type Labels []string

// LoadLabels reads a newline delimited label file where line i names class i. Trailing blank
// lines are ignored.
func LoadLabels(path string) (Labels, error) {
	//nolint:gosec
	f, err := os.Open(path)
	if err != nil {
		return nil, utils.NewInputError(path, err)
	}
	defer utils.UncheckedErrorFunc(f.Close)

	labels := Labels{}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		labels = append(labels, strings.TrimRight(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, utils.NewInputError(path, err)
	}
	for len(labels) > 0 && strings.TrimSpace(labels[len(labels)-1]) == "" {
		labels = labels[:len(labels)-1]
	}
	return labels, nil
}

// Name returns the label of classID, or the id itself when there is none.
func (l Labels) Name(classID int) string {
	if classID >= 0 && classID < len(l) && l[classID] != "" {
		return l[classID]
	}
	return strconv.Itoa(classID)
}
