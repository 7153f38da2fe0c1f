package lines

import (
	"bufio"
	"io"

	"github.com/go-sif/crimeflow"
)

// ParserConf configures a lines Parser
type ParserConf struct {
	PartitionSize int    // The maximum number of rows per Partition. Defaults to 128.
	HeaderLines   int    // The number of lines to ignore from the beginning of each file. Defaults to 0.
	Comment       string // Lines beginning with this prefix are ignored. Defaults to no comment prefix.
	MaxLineBytes  int    // The longest line which can be read. Defaults to 1MiB.
}

// Parser produces partitions from line-oriented text. Blank lines are skipped.
type Parser struct {
	conf *ParserConf
}

// CreateParser returns a new lines Parser
func CreateParser(conf *ParserConf) *Parser {
	if conf == nil {
		conf = &ParserConf{}
	}
	if conf.PartitionSize <= 0 {
		conf.PartitionSize = 128
	}
	if conf.MaxLineBytes <= 0 {
		conf.MaxLineBytes = 1024 * 1024
	}
	return &Parser{conf: conf}
}

// PartitionSize returns the maximum size in rows of Partitions produced by this Parser
func (p *Parser) PartitionSize() int {
	return p.conf.PartitionSize
}

// Parse parses line-oriented data to produce Partitions
func (p *Parser) Parse(r io.Reader, onIteratorEnd func()) (crimeflow.PartitionIterator, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), p.conf.MaxLineBytes)

	// ignore header lines, if configured to do so
	for i := 0; i < p.conf.HeaderLines; i++ {
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return nil, err
			}
			break
		}
	}

	iterator := &linesPartitionIterator{
		parser:       p,
		scanner:      scanner,
		hasNext:      true,
		endListeners: []func(){},
	}
	if onIteratorEnd != nil {
		iterator.OnEnd(onIteratorEnd)
	}
	return iterator, nil
}
