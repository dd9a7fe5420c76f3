package server

import "github.com/weldfolio/weldsite/internal/clipboard"

const uiSiteJS = uiSharedJS + uiCopyWidgetJS + uiSearchWidgetJS + uiSiteBootJS

const uiSharedJS = `function escapeHtml(s) {
  return String(s || '').replace(/[&<>"']/g, c => ({ '&': '&amp;', '<': '&lt;', '>': '&gt;', '"': '&quot;', "'": '&#39;' }[c]));
}
`

const uiCopyWidgetJS = `
const COPY_SUCCESS_MESSAGE = "` + clipboard.SuccessMessage + `";
const COPY_MANUAL_MESSAGE = "` + clipboard.ManualCopyMessage + `";

function writeClipboardText(text) {
  if (!window.isSecureContext || !navigator.clipboard || typeof navigator.clipboard.writeText !== 'function') {
    return Promise.reject(new Error('clipboard API unavailable'));
  }
  return navigator.clipboard.writeText(text);
}

function createCopyWidget(opts) {
  const options = opts || {};
  const button = options.button;
  const source = options.source;
  if (!button || !source) return null;
  const notify = (typeof options.notify === 'function') ? options.notify : (msg) => window.alert(msg);
  const writeText = (typeof options.writeText === 'function') ? options.writeText : writeClipboardText;

  function activate() {
    const text = source.innerText || source.textContent || '';
    return Promise.resolve()
      .then(() => writeText(text))
      .then(
        () => {
          notify(COPY_SUCCESS_MESSAGE);
          return true;
        },
        (err) => {
          console.error('Failed to copy code:', err);
          notify(COPY_MANUAL_MESSAGE);
          return false;
        },
      );
  }

  button.addEventListener('click', (ev) => {
    ev.preventDefault();
    activate();
  });
  return { activate };
}
`

const uiSearchWidgetJS = `
function filterCatalog(catalog, query) {
  const raw = String(query || '');
  if (!raw.trim()) return [];
  const needle = raw.toLowerCase();
  const entries = Array.isArray(catalog) ? catalog : [];
  return entries.filter(entry => {
    const title = String((entry && entry.title) || '').toLowerCase();
    const description = String((entry && entry.description) || '').toLowerCase();
    return title.includes(needle) || description.includes(needle);
  });
}

function createSearchWidget(opts) {
  const options = opts || {};
  const input = options.input;
  const resultsEl = options.results;
  const catalogURL = String(options.catalogURL || '/search.json');
  if (!input || !resultsEl) return null;

  let state = 'idle';
  let catalog = [];

  function render(entries) {
    resultsEl.innerHTML = entries.map(entry => {
      const title = escapeHtml(entry.title);
      const link = entry.url ? '<a href="' + escapeHtml(entry.url) + '">' + title + '</a>' : title;
      return '<li class="search-result"><div class="search-title">' + link + '</div>' +
        '<div class="search-description">' + escapeHtml(entry.description) + '</div></li>';
    }).join('');
  }

  function results() {
    return filterCatalog(catalog, input.value);
  }

  function update() {
    render(results());
  }

  function load() {
    if (state !== 'idle') return Promise.resolve();
    state = 'loading';
    return fetch(catalogURL, { headers: { 'Accept': 'application/json' } })
      .then(res => {
        if (!res.ok) throw new Error(res.statusText || ('HTTP ' + res.status));
        return res.json();
      })
      .then(data => {
        if (!Array.isArray(data)) throw new Error('catalog is not a JSON array');
        catalog = data;
        state = 'ready';
        update();
      })
      .catch(err => {
        state = 'load_failed';
        console.error('Failed to load search catalog:', err);
      });
  }

  input.addEventListener('input', update);
  load();
  return { load, update, results, state: () => state };
}
`

const uiSiteBootJS = `
document.addEventListener('DOMContentLoaded', () => {
  createCopyWidget({
    button: document.getElementById('copy-btn'),
    source: document.getElementById('code-block'),
  });
  const searchInput = document.getElementById('search-input');
  if (searchInput) {
    createSearchWidget({
      input: searchInput,
      results: document.getElementById('search-results'),
      catalogURL: searchInput.getAttribute('data-catalog') || '/search.json',
    });
  }
});
`
