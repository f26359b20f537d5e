package feed

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greven/forex/internal/rates"
)

const fixtureXML = `<?xml version="1.0" encoding="UTF-8"?>
<gesmes:Envelope xmlns:gesmes="http://www.gesmes.org/xml/2002-08-01" xmlns="http://www.ecb.int/vocabulary/2002-08-01/eurofxref">
	<gesmes:subject>Reference rates</gesmes:subject>
	<Cube>
		<Cube time="2024-11-08">
			<Cube currency="USD" rate="1.0772"/>
			<Cube currency="GBP" rate="0.83188"/>
			<Cube currency="JPY" rate="164.18"/>
		</Cube>
		<Cube time="2024-11-07">
			<Cube currency="USD" rate="1.0755"/>
			<Cube currency="GBP" rate="0.83287"/>
			<Cube currency="JPY" rate="163.95"/>
		</Cube>
	</Cube>
</gesmes:Envelope>`

func TestXMLParser_ParsesMostRecentFirst(t *testing.T) {
	p := NewXMLParser()
	payload, err := p.Parse(KindLatest, []byte(fixtureXML))
	require.NoError(t, err)
	require.Len(t, payload, 2)

	assert.True(t, payload[0].Date.After(payload[1].Date))

	usd, ok := payload[0].Rates["USD"]
	require.True(t, ok)
	f, _ := usd.Float64()
	assert.InDelta(t, 1.0772, f, 1e-9)
}

func TestXMLParser_SynthesizesEUR(t *testing.T) {
	p := NewXMLParser()
	payload, err := p.Parse(KindLatest, []byte(fixtureXML))
	require.NoError(t, err)

	eur, ok := payload[0].Rates["EUR"]
	require.True(t, ok)
	assert.True(t, eur.Equal(rates.NewSet(payload[0].Date, nil).Rates["EUR"]))
}

func TestXMLParser_EmptyEnvelopeErrors(t *testing.T) {
	p := NewXMLParser()
	_, err := p.Parse(KindLatest, []byte(`<Envelope><Cube></Cube></Envelope>`))
	require.Error(t, err)
}

func TestXMLParser_MalformedXMLErrors(t *testing.T) {
	p := NewXMLParser()
	_, err := p.Parse(KindLatest, []byte(`not xml`))
	require.Error(t, err)
}

type fakeHTTPClient struct {
	body []byte
	err  error
}

func (f fakeHTTPClient) Do(ctx context.Context, k Kind) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.body, nil
}

func TestOrchestrator_Fetch(t *testing.T) {
	o := NewOrchestrator(fakeHTTPClient{body: []byte(fixtureXML)}, NewXMLParser())
	payload, err := o.Fetch(context.Background(), KindLatest)
	require.NoError(t, err)
	assert.Len(t, payload, 2)
}

func TestOrchestrator_HTTPFailureWrapsFeedError(t *testing.T) {
	o := NewOrchestrator(fakeHTTPClient{err: errors.New("boom")}, NewXMLParser())
	_, err := o.Fetch(context.Background(), KindLatest)
	require.Error(t, err)

	var feedErr *Error
	require.ErrorAs(t, err, &feedErr)
	assert.Equal(t, KindLatest, feedErr.Kind)
}

func TestOrchestrator_ParseFailureWrapsFeedError(t *testing.T) {
	o := NewOrchestrator(fakeHTTPClient{body: []byte("garbage")}, NewXMLParser())
	_, err := o.Fetch(context.Background(), KindHistoric)
	require.Error(t, err)

	var feedErr *Error
	require.ErrorAs(t, err, &feedErr)
}
